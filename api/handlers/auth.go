package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/electodo/electodo/internal/auth"
	"github.com/electodo/electodo/internal/models"
	"github.com/electodo/electodo/internal/store"
)

// CredentialsInput DTO for sign-up and sign-in
type CredentialsInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func newSessionResponse(token string, user *models.User) sessionResponse {
	return sessionResponse{
		Token: token,
		User:  userResponse{ID: user.ID.String(), Email: user.Email},
	}
}

// SignUp creates an account and returns a session token.
func (h *Handler) SignUp(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}

	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.auth.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.WithError(err).Error("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), input.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := h.auth.Issue(user)
	if err != nil {
		h.log.WithError(err).Error("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(token, user))
}

// SignIn verifies credentials and returns a session token.
func (h *Handler) SignIn(c *gin.Context) {
	if h.degraded() {
		h.serviceUnavailable(c)
		return
	}

	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UserByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.log.WithError(err).Error("failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	if !h.auth.CheckPassword(user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.auth.Issue(user)
	if err != nil {
		h.log.WithError(err).Error("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(token, user))
}
