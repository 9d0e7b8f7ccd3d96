// Package api is the typed HTTP client the CLI screens use to reach the
// ElecTodo server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080/v1"

// Task is a task row as the server renders it.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	DueDate   string    `json:"due_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []Tag     `json:"tags"`
}

// Tag is a tag row as the server renders it.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User identifies the signed-in account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the sign-in/sign-up result.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Board groups tasks into the three kanban columns.
type Board struct {
	ToDo    []Task `json:"todo"`
	Overdue []Task `json:"overdue"`
	Done    []Task `json:"done"`
}

// Client talks to the ElecTodo API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient creates an API client. The base URL comes from API_BASE_URL
// when set; the token is the stored session token, empty when signed out.
func NewClient(token string) *Client {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest makes an HTTP request and returns the response body
func (c *Client) makeRequest(method, endpoint string, body interface{}) ([]byte, error) {
	url := c.BaseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiError struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiError); err == nil && apiError.Error != "" {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, apiError.Error)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// SignUp creates an account and returns its session.
func (c *Client) SignUp(email, password string) (*Session, error) {
	return c.authenticate("/auth/signup", email, password)
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(email, password string) (*Session, error) {
	return c.authenticate("/auth/signin", email, password)
}

func (c *Client) authenticate(endpoint, email, password string) (*Session, error) {
	respBody, err := c.makeRequest("POST", endpoint, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// ListTasks fetches the task list. sort is created_at or due_date; tagID
// filters to tasks associated with that tag when non-empty.
func (c *Client) ListTasks(sort, tagID string) ([]Task, error) {
	params := url.Values{}
	if sort != "" {
		params.Set("sort", sort)
	}
	if tagID != "" {
		params.Set("tag", tagID)
	}
	endpoint := "/tasks"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	respBody, err := c.makeRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(respBody, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a task with an optional due date and tag ids.
func (c *Client) CreateTask(title, dueDate string, tagIDs []string) (*Task, error) {
	reqBody := map[string]interface{}{
		"title": title,
	}
	if dueDate != "" {
		reqBody["due_date"] = dueDate
	}
	if len(tagIDs) > 0 {
		reqBody["tag_ids"] = tagIDs
	}

	respBody, err := c.makeRequest("POST", "/tasks", reqBody)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// SetTaskCompletion sets a task's completed flag.
func (c *Client) SetTaskCompletion(taskID string, completed bool) error {
	_, err := c.makeRequest("PUT", "/tasks/"+taskID+"/complete", map[string]bool{
		"completed": completed,
	})
	return err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(taskID string) error {
	_, err := c.makeRequest("DELETE", "/tasks/"+taskID, nil)
	return err
}

// ListTags fetches the tag vocabulary sorted by name.
func (c *Client) ListTags() ([]Tag, error) {
	respBody, err := c.makeRequest("GET", "/tags", nil)
	if err != nil {
		return nil, err
	}

	var tags []Tag
	if err := json.Unmarshal(respBody, &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	return tags, nil
}

// CreateTag adds a tag.
func (c *Client) CreateTag(name string) (*Tag, error) {
	respBody, err := c.makeRequest("POST", "/tags", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	var tag Tag
	if err := json.Unmarshal(respBody, &tag); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag: %w", err)
	}
	return &tag, nil
}

// DeleteTag removes a tag from the vocabulary.
func (c *Client) DeleteTag(tagID string) error {
	_, err := c.makeRequest("DELETE", "/tags/"+tagID, nil)
	return err
}

// Board fetches the kanban board, optionally filtered to tasks carrying
// any of the given tag ids.
func (c *Client) Board(tagIDs []string) (*Board, error) {
	endpoint := "/board"
	if len(tagIDs) > 0 {
		params := url.Values{}
		params.Set("tags", strings.Join(tagIDs, ","))
		endpoint += "?" + params.Encode()
	}

	respBody, err := c.makeRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	var board Board
	if err := json.Unmarshal(respBody, &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	return &board, nil
}
