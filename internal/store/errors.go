package store

import (
	"errors"
	"fmt"

	"github.com/electodo/electodo/internal/models"
)

var (
	// ErrTitleRequired is returned when a task title is empty after trimming.
	ErrTitleRequired = errors.New("task title is required")
	// ErrTagNameRequired is returned when a tag name is empty after trimming.
	ErrTagNameRequired = errors.New("tag name is required")
	// ErrTagNameTooLong is returned when a tag name exceeds the maximum length.
	ErrTagNameTooLong = fmt.Errorf("tag name exceeds %d characters", models.MaxTagNameLength)
	// ErrDuplicateTag is returned when a case-insensitive match already
	// exists in the owner's tag vocabulary.
	ErrDuplicateTag = errors.New("a tag with this name already exists")
	// ErrTagNotFound is returned when a referenced tag id does not exist
	// in the owner's vocabulary. Other users' tags are indistinguishable
	// from missing ones.
	ErrTagNotFound = errors.New("tag not found")
	// ErrDuplicateEmail is returned when an account already uses the email.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrUserNotFound is returned when no account matches the email.
	ErrUserNotFound = errors.New("user not found")
)

// PartialCreateError reports a task that was persisted while its tag
// associations were not. There is no compensating rollback; the caller
// must surface the failure instead of treating it as silent success.
type PartialCreateError struct {
	Task *models.Task
	Err  error
}

func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("task %s created but tag association failed: %v", e.Task.ID, e.Err)
}

func (e *PartialCreateError) Unwrap() error {
	return e.Err
}
