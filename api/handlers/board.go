package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/electodo/electodo/internal/domain"
	"github.com/electodo/electodo/internal/models"
	"github.com/electodo/electodo/internal/store"
)

// maxBoardFilterTags caps how many tags the board view filters by at once.
const maxBoardFilterTags = 5

type boardResponse struct {
	ToDo    []taskResponse `json:"todo"`
	Overdue []taskResponse `json:"overdue"`
	Done    []taskResponse `json:"done"`
}

// Board returns the caller's tasks grouped into the three kanban columns.
// The grouping is recomputed on every request; no column is persisted.
func (h *Handler) Board(c *gin.Context) {
	if h.degraded() {
		c.JSON(http.StatusOK, boardResponse{
			ToDo:    []taskResponse{},
			Overdue: []taskResponse{},
			Done:    []taskResponse{},
		})
		return
	}
	session := currentSession(c)

	filter := make(map[uuid.UUID]bool)
	if raw := c.Query("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
				return
			}
			filter[id] = true
			if len(filter) == maxBoardFilterTags {
				break
			}
		}
	}

	tasks, err := h.tasks.LoadTasks(c.Request.Context(), session.UserID, store.SortCreatedAt, nil)
	if err != nil {
		h.log.WithError(err).Error("failed to load tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}

	resp := boardResponse{
		ToDo:    []taskResponse{},
		Overdue: []taskResponse{},
		Done:    []taskResponse{},
	}
	now := time.Now()
	for _, task := range tasks {
		if len(filter) > 0 && !hasAnyTag(task, filter) {
			continue
		}
		switch domain.ColumnOf(now, task.DueTime(), task.Completed) {
		case domain.ColumnOverdue:
			resp.Overdue = append(resp.Overdue, newTaskResponse(task))
		case domain.ColumnDone:
			resp.Done = append(resp.Done, newTaskResponse(task))
		default:
			resp.ToDo = append(resp.ToDo, newTaskResponse(task))
		}
	}

	c.JSON(http.StatusOK, resp)
}

func hasAnyTag(task *models.Task, filter map[uuid.UUID]bool) bool {
	for _, tag := range task.Tags {
		if filter[tag.ID] {
			return true
		}
	}
	return false
}
