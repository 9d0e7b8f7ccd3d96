package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/electodo/electodo/internal/auth"
	"github.com/electodo/electodo/internal/models"
	"github.com/electodo/electodo/internal/store"
)

// fakeStore is an in-memory stand-in for the database-backed store. It
// honors the same contract: owner scoping, deterministic ordering,
// idempotent deletes, and the store's sentinel errors.
type fakeStore struct {
	tasks map[uuid.UUID]*models.Task
	tags  map[uuid.UUID]*models.Tag
	users map[string]*models.User

	createTaskCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks: make(map[uuid.UUID]*models.Task),
		tags:  make(map[uuid.UUID]*models.Tag),
		users: make(map[string]*models.User),
	}
}

func (f *fakeStore) LoadTasks(_ context.Context, owner uuid.UUID, sortKey store.SortKey, filterTag *uuid.UUID) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range f.tasks {
		if t.UserID != owner {
			continue
		}
		if filterTag != nil && !taskHasTag(t, *filterTag) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if sortKey == store.SortDueDate {
			ad, bd := a.DueTime(), b.DueTime()
			switch {
			case ad == nil && bd != nil:
				return false
			case ad != nil && bd == nil:
				return true
			case ad != nil && bd != nil && !ad.Equal(*bd):
				return ad.Before(*bd)
			}
			return a.ID.String() < b.ID.String()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out, nil
}

func taskHasTag(t *models.Task, tagID uuid.UUID) bool {
	for _, tag := range t.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateTask(_ context.Context, owner uuid.UUID, title string, due *time.Time, tagIDs []uuid.UUID) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, store.ErrTitleRequired
	}
	f.createTaskCalls++

	task := &models.Task{ID: uuid.New(), UserID: owner, Title: title, CreatedAt: time.Now()}
	if due != nil {
		d := datatypes.Date(*due)
		task.DueDate = &d
	}
	for _, id := range tagIDs {
		tag, ok := f.tags[id]
		if !ok || tag.UserID != owner {
			return nil, store.ErrTagNotFound
		}
		task.Tags = append(task.Tags, tag)
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeStore) SetTaskCompletion(_ context.Context, owner, taskID uuid.UUID, completed bool) error {
	if t, ok := f.tasks[taskID]; ok && t.UserID == owner {
		t.Completed = completed
	}
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, owner, taskID uuid.UUID) error {
	if t, ok := f.tasks[taskID]; ok && t.UserID == owner {
		delete(f.tasks, taskID)
	}
	return nil
}

func (f *fakeStore) LoadTags(_ context.Context, owner uuid.UUID) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, t := range f.tags {
		if t.UserID == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) CreateTag(_ context.Context, owner uuid.UUID, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, store.ErrTagNameRequired
	}
	for _, t := range f.tags {
		if t.UserID == owner && strings.EqualFold(t.Name, name) {
			return nil, store.ErrDuplicateTag
		}
	}
	tag := &models.Tag{ID: uuid.New(), UserID: owner, Name: name}
	f.tags[tag.ID] = tag
	return tag, nil
}

func (f *fakeStore) DeleteTag(_ context.Context, owner, tagID uuid.UUID) error {
	if t, ok := f.tags[tagID]; ok && t.UserID == owner {
		delete(f.tags, tagID)
	}
	return nil
}

func (f *fakeStore) CreateUser(_ context.Context, email, passwordHash string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.users[email]; ok {
		return nil, store.ErrDuplicateEmail
	}
	user := &models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	f.users[email] = user
	return user, nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

type testEnv struct {
	router *gin.Engine
	store  *fakeStore
	owner  uuid.UUID
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := newFakeStore()
	mgr := auth.NewManager("test-secret", time.Hour)
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewFromStores(fs, fs, fs, mgr, log)
	router := gin.New()
	h.Register(router)

	user := &models.User{ID: uuid.New(), Email: "owner@example.com"}
	token, err := mgr.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	return &testEnv{router: router, store: fs, owner: user.ID, token: token}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestListTasksRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCreateAndListTasks(t *testing.T) {
	env := newTestEnv(t)

	tagW := env.do(t, http.MethodPost, "/v1/tags", `{"name":"Work"}`)
	if tagW.Code != http.StatusCreated {
		t.Fatalf("create tag status = %d, body %s", tagW.Code, tagW.Body)
	}
	var tag tagResponse
	if err := json.Unmarshal(tagW.Body.Bytes(), &tag); err != nil {
		t.Fatalf("decode tag: %v", err)
	}

	body := fmt.Sprintf(`{"title":"  Ship report  ","due_date":"2024-06-10","tag_ids":[%q]}`, tag.ID)
	w := env.do(t, http.MethodPost, "/v1/tasks", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task status = %d, body %s", w.Code, w.Body)
	}
	var created taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if created.Title != "Ship report" {
		t.Errorf("title = %q, want trimmed %q", created.Title, "Ship report")
	}
	if created.DueDate != "2024-06-10" {
		t.Errorf("due_date = %q, want 2024-06-10", created.DueDate)
	}
	if len(created.Tags) != 1 || created.Tags[0].Name != "Work" {
		t.Errorf("tags = %+v, want the Work tag", created.Tags)
	}

	list := env.do(t, http.MethodGet, "/v1/tasks", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var tasks []taskResponse
	if err := json.Unmarshal(list.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Errorf("list = %+v, want the created task", tasks)
	}
}

func TestCreateTaskWhitespaceTitle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/tasks", `{"title":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if env.store.createTaskCalls != 0 {
		t.Errorf("store saw %d create calls, want 0", env.store.createTaskCalls)
	}
	if len(env.store.tasks) != 0 {
		t.Errorf("store holds %d tasks, want 0", len(env.store.tasks))
	}
}

func TestCreateDuplicateTagCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodPost, "/v1/tags", `{"name":"Work"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/v1/tags", `{"name":"work"}`); w.Code != http.StatusConflict {
		t.Errorf("second create status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestDeleteMissingTaskSucceeds(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodDelete, "/v1/tasks/"+uuid.NewString(), "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestSetTaskCompletionIdempotent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/tasks", `{"title":"Water plants"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	path := "/v1/tasks/" + created.ID + "/complete"
	for i := 0; i < 2; i++ {
		if w := env.do(t, http.MethodPut, path, `{"completed":true}`); w.Code != http.StatusOK {
			t.Fatalf("toggle %d status = %d", i+1, w.Code)
		}
	}

	taskID, _ := uuid.Parse(created.ID)
	if !env.store.tasks[taskID].Completed {
		t.Error("task not completed after two identical toggles")
	}
}

func TestListTasksRejectsUnknownSort(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/tasks?sort=priority", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestBoardColumns(t *testing.T) {
	env := newTestEnv(t)

	past := time.Now().AddDate(0, 0, -3).Format(dueDateLayout)
	future := time.Now().AddDate(0, 0, 14).Format(dueDateLayout)

	overdueW := env.do(t, http.MethodPost, "/v1/tasks", fmt.Sprintf(`{"title":"Late","due_date":%q}`, past))
	openW := env.do(t, http.MethodPost, "/v1/tasks", fmt.Sprintf(`{"title":"Planned","due_date":%q}`, future))
	doneW := env.do(t, http.MethodPost, "/v1/tasks", `{"title":"Finished"}`)
	for _, w := range []*httptest.ResponseRecorder{overdueW, openW, doneW} {
		if w.Code != http.StatusCreated {
			t.Fatalf("create status = %d", w.Code)
		}
	}

	var done taskResponse
	if err := json.Unmarshal(doneW.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w := env.do(t, http.MethodPut, "/v1/tasks/"+done.ID+"/complete", `{"completed":true}`); w.Code != http.StatusOK {
		t.Fatalf("complete status = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/v1/board", "")
	if w.Code != http.StatusOK {
		t.Fatalf("board status = %d", w.Code)
	}
	var board boardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}

	if len(board.Overdue) != 1 || board.Overdue[0].Title != "Late" {
		t.Errorf("overdue column = %+v, want [Late]", board.Overdue)
	}
	if len(board.ToDo) != 1 || board.ToDo[0].Title != "Planned" {
		t.Errorf("todo column = %+v, want [Planned]", board.ToDo)
	}
	if len(board.Done) != 1 || board.Done[0].Title != "Finished" {
		t.Errorf("done column = %+v, want [Finished]", board.Done)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/signup", `{"email":"new@example.com","password":"hunter22"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body)
	}
	var session sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" || session.User.Email != "new@example.com" {
		t.Errorf("session = %+v, want token and email", session)
	}

	if w := env.do(t, http.MethodPost, "/v1/auth/signin", `{"email":"new@example.com","password":"hunter22"}`); w.Code != http.StatusOK {
		t.Errorf("signin status = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/v1/auth/signin", `{"email":"new@example.com","password":"wrong-pass"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("signin with wrong password status = %d, want 401", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/v1/auth/signup", `{"email":"new@example.com","password":"hunter22"}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", w.Code)
	}
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/signup", `{"email":"new@example.com","password":"abc"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDegradedModeServesEmptyReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := auth.NewManager("test-secret", time.Hour)
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := New(nil, mgr, log)
	router := gin.New()
	h.Register(router)

	token, err := mgr.Issue(&models.User{ID: uuid.New(), Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := get("/v1/tasks"); w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("tasks = %d %q, want 200 []", w.Code, w.Body)
	}
	if w := get("/v1/tags"); w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("tags = %d %q, want 200 []", w.Code, w.Body)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/tags", strings.NewReader(`{"name":"Work"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("write status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(`{"email":"a@b.co","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("signup status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestCreateTaskRejectsForeignTag(t *testing.T) {
	env := newTestEnv(t)

	foreign := &models.Tag{ID: uuid.New(), UserID: uuid.New(), Name: "Theirs"}
	env.store.tags[foreign.ID] = foreign

	body := fmt.Sprintf(`{"title":"Spy","tag_ids":[%q]}`, foreign.ID)
	w := env.do(t, http.MethodPost, "/v1/tasks", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.store.tasks) != 0 {
		t.Errorf("store holds %d tasks, want 0", len(env.store.tasks))
	}
}

func TestDegradedWarningConcurrentReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := auth.NewManager("test-secret", time.Hour)
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := New(nil, mgr, log)
	router := gin.New()
	h.Register(router)

	token, err := mgr.Issue(&models.User{ID: uuid.New(), Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
		}()
	}
	wg.Wait()
}

func TestListTasksFilterByTag(t *testing.T) {
	env := newTestEnv(t)

	tagW := env.do(t, http.MethodPost, "/v1/tags", `{"name":"Home"}`)
	var tag tagResponse
	if err := json.Unmarshal(tagW.Body.Bytes(), &tag); err != nil {
		t.Fatalf("decode tag: %v", err)
	}

	tagged := env.do(t, http.MethodPost, "/v1/tasks", fmt.Sprintf(`{"title":"Fix sink","tag_ids":[%q]}`, tag.ID))
	if tagged.Code != http.StatusCreated {
		t.Fatalf("create status = %d", tagged.Code)
	}
	if w := env.do(t, http.MethodPost, "/v1/tasks", `{"title":"Untagged"}`); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/v1/tasks?sort=due_date&tag="+tag.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var tasks []taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Fix sink" {
		t.Errorf("filtered list = %+v, want only the tagged task", tasks)
	}
}
