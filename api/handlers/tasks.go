package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/electodo/electodo/internal/models"
	"github.com/electodo/electodo/internal/store"
)

// dueDateLayout is the wire format for due dates; they carry no time component.
const dueDateLayout = "2006-01-02"

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Completed bool          `json:"completed"`
	DueDate   string        `json:"due_date,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Tags      []tagResponse `json:"tags"`
}

func newTagResponse(t *models.Tag) tagResponse {
	return tagResponse{ID: t.ID.String(), Name: t.Name}
}

func newTaskResponse(t *models.Task) taskResponse {
	resp := taskResponse{
		ID:        t.ID.String(),
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		Tags:      make([]tagResponse, 0, len(t.Tags)),
	}
	if due := t.DueTime(); due != nil {
		resp.DueDate = due.Format(dueDateLayout)
	}
	for _, tag := range t.Tags {
		resp.Tags = append(resp.Tags, newTagResponse(tag))
	}
	return resp
}

func newTaskListResponse(tasks []*models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

// ListTasks returns the caller's tasks with tags, sorted and optionally
// filtered by a tag id.
func (h *Handler) ListTasks(c *gin.Context) {
	if h.degraded() {
		c.JSON(http.StatusOK, []taskResponse{})
		return
	}
	session := currentSession(c)

	var sort store.SortKey
	switch c.Query("sort") {
	case "", string(store.SortCreatedAt):
		sort = store.SortCreatedAt
	case string(store.SortDueDate):
		sort = store.SortDueDate
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be created_at or due_date"})
		return
	}

	var filterTag *uuid.UUID
	if raw := c.Query("tag"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
			return
		}
		filterTag = &id
	}

	tasks, err := h.tasks.LoadTasks(c.Request.Context(), session.UserID, sort, filterTag)
	if err != nil {
		h.log.WithError(err).Error("failed to load tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

// CreateTaskInput DTO for creating a new task
type CreateTaskInput struct {
	Title   string   `json:"title" binding:"required"`
	DueDate string   `json:"due_date"`
	TagIDs  []string `json:"tag_ids"`
}

// CreateTask creates a task and its tag associations.
func (h *Handler) CreateTask(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}
	session := currentSession(c)

	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var due *time.Time
	if input.DueDate != "" {
		parsed, err := time.Parse(dueDateLayout, input.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}
		due = &parsed
	}

	tagIDs := make([]uuid.UUID, 0, len(input.TagIDs))
	for _, raw := range input.TagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
			return
		}
		tagIDs = append(tagIDs, id)
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), session.UserID, input.Title, due, tagIDs)
	if err != nil {
		var partial *store.PartialCreateError
		switch {
		case errors.Is(err, store.ErrTitleRequired), errors.Is(err, store.ErrTagNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &partial):
			// The task row is already committed; report the gap instead of
			// pretending the whole create succeeded.
			h.log.WithError(err).Error("task created without its tag associations")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Task was created but tagging it failed"})
		default:
			h.log.WithError(err).Error("failed to create task")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		}
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// SetCompletionInput DTO for toggling a task's completed flag
type SetCompletionInput struct {
	Completed *bool `json:"completed" binding:"required"`
}

// SetTaskCompletion sets the completed flag. Repeating the same value is a
// no-op success.
func (h *Handler) SetTaskCompletion(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}
	session := currentSession(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var input SetCompletionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tasks.SetTaskCompletion(c.Request.Context(), session.UserID, taskID, *input.Completed); err != nil {
		h.log.WithError(err).Error("failed to update task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// DeleteTask removes a task. A missing id still succeeds so double
// deletes stay quiet.
func (h *Handler) DeleteTask(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}
	session := currentSession(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), session.UserID, taskID); err != nil {
		h.log.WithError(err).Error("failed to delete task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
