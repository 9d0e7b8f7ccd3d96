// Package handlers wires the HTTP surface: one handler per screen
// operation, each a thin pass-through to the store followed by a JSON
// rendering of the authoritative rows.
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/electodo/electodo/internal/auth"
	"github.com/electodo/electodo/internal/models"
	"github.com/electodo/electodo/internal/store"
)

// TaskStore is the slice of the data layer the task screens use.
type TaskStore interface {
	LoadTasks(ctx context.Context, owner uuid.UUID, sort store.SortKey, filterTag *uuid.UUID) ([]*models.Task, error)
	CreateTask(ctx context.Context, owner uuid.UUID, title string, due *time.Time, tagIDs []uuid.UUID) (*models.Task, error)
	SetTaskCompletion(ctx context.Context, owner, taskID uuid.UUID, completed bool) error
	DeleteTask(ctx context.Context, owner, taskID uuid.UUID) error
}

// TagStore is the slice of the data layer the tag manager uses.
type TagStore interface {
	LoadTags(ctx context.Context, owner uuid.UUID) ([]*models.Tag, error)
	CreateTag(ctx context.Context, owner uuid.UUID, name string) (*models.Tag, error)
	DeleteTag(ctx context.Context, owner, tagID uuid.UUID) error
}

// UserStore is the slice of the data layer the auth endpoints use.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Handler carries the dependencies shared by all routes. With a nil store
// it serves in degraded mode: reads return empty lists, writes return 503.
type Handler struct {
	tasks TaskStore
	tags  TagStore
	users UserStore
	auth  *auth.Manager
	log   *logrus.Logger

	warnDegraded sync.Once
}

// New creates a Handler over the full store. A nil store enables degraded
// mode instead of failing.
func New(s *store.Store, a *auth.Manager, log *logrus.Logger) *Handler {
	h := &Handler{auth: a, log: log}
	if s != nil {
		h.tasks = s
		h.tags = s
		h.users = s
	}
	return h
}

// NewFromStores creates a Handler from individual store slices. Tests use
// this to substitute fakes.
func NewFromStores(tasks TaskStore, tags TagStore, users UserStore, a *auth.Manager, log *logrus.Logger) *Handler {
	return &Handler{tasks: tasks, tags: tags, users: users, auth: a, log: log}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/signup", h.SignUp)
		v1.POST("/auth/signin", h.SignIn)

		authed := v1.Group("", h.RequireSession)
		{
			authed.GET("/tasks", h.ListTasks)
			authed.POST("/tasks", h.CreateTask)
			authed.PUT("/tasks/:id/complete", h.SetTaskCompletion)
			authed.DELETE("/tasks/:id", h.DeleteTask)

			authed.GET("/board", h.Board)

			authed.GET("/tags", h.ListTags)
			authed.POST("/tags", h.CreateTag)
			authed.DELETE("/tags/:id", h.DeleteTag)
		}
	}
}

// degraded reports whether data operations are disabled, logging a single
// warning the first time a request hits the gap. Requests run
// concurrently, so the warning gate is a sync.Once.
func (h *Handler) degraded() bool {
	if h.tasks != nil {
		return false
	}
	h.warnDegraded.Do(func() {
		h.log.Warn("database not configured; data operations are disabled")
	})
	return true
}

func (h *Handler) serviceUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data service not configured"})
}
