package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task represents a single todo item owned by a user.
type Task struct {
	ID        uuid.UUID       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID       `json:"user_id" gorm:"not null;type:uuid;index:idx_todos_user"`
	Title     string          `json:"title" gorm:"not null"`
	Completed bool            `json:"completed" gorm:"not null;default:false"`
	DueDate   *datatypes.Date `json:"-" gorm:"type:date"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Many-to-Many Relations
	Tags []*Tag `json:"tags" gorm:"many2many:todo_tags;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Task) TableName() string {
	return "todos"
}

// BeforeCreate assigns an id so inserts also work on databases without
// gen_random_uuid()
func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// DueTime returns the due date as a time.Time, or nil when the task has none.
func (t *Task) DueTime() *time.Time {
	if t.DueDate == nil {
		return nil
	}
	due := time.Time(*t.DueDate)
	return &due
}

// TodoTag is a single association row linking one task to one tag.
type TodoTag struct {
	TaskID uuid.UUID `json:"task_id" gorm:"primaryKey;type:uuid"`
	TagID  uuid.UUID `json:"tag_id" gorm:"primaryKey;type:uuid"`
}

// TableName specifies the table name for GORM
func (TodoTag) TableName() string {
	return "todo_tags"
}
