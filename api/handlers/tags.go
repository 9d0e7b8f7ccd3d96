package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/electodo/electodo/internal/models"
	"github.com/electodo/electodo/internal/store"
)

func newTagListResponse(tags []*models.Tag) []tagResponse {
	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, newTagResponse(t))
	}
	return out
}

// ListTags returns the caller's tag vocabulary sorted by name.
func (h *Handler) ListTags(c *gin.Context) {
	if h.degraded() {
		c.JSON(http.StatusOK, []tagResponse{})
		return
	}
	session := currentSession(c)

	tags, err := h.tags.LoadTags(c.Request.Context(), session.UserID)
	if err != nil {
		h.log.WithError(err).Error("failed to load tags")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tags"})
		return
	}

	c.JSON(http.StatusOK, newTagListResponse(tags))
}

// CreateTagInput DTO for creating a new tag
type CreateTagInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateTag adds a tag to the caller's vocabulary.
func (h *Handler) CreateTag(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}
	session := currentSession(c)

	var input CreateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tags.CreateTag(c.Request.Context(), session.UserID, input.Name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateTag):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrTagNameRequired), errors.Is(err, store.ErrTagNameTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.WithError(err).Error("failed to create tag")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		}
		return
	}

	c.JSON(http.StatusCreated, newTagResponse(tag))
}

// DeleteTag removes a tag and its associations; the tagged tasks survive.
func (h *Handler) DeleteTag(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}
	session := currentSession(c)

	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	if err := h.tags.DeleteTag(c.Request.Context(), session.UserID, tagID); err != nil {
		h.log.WithError(err).Error("failed to delete tag")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}
