package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTagNameLength is the longest tag name accepted at creation time.
const MaxTagNameLength = 50

// Tag represents a label in a user's personal tag vocabulary. Names are
// unique per owner, compared case-insensitively.
type Tag struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"not null;type:uuid;uniqueIndex:idx_tags_user_name"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_tags_user_name"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Many-to-Many Relations
	Tasks []*Task `json:"tasks,omitempty" gorm:"many2many:todo_tags"`
}

// BeforeCreate assigns an id so inserts also work on databases without
// gen_random_uuid()
func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
