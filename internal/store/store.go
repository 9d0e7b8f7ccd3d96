// Package store implements the data access contract shared by every
// screen: load a consistent owner-scoped snapshot, mutate, and let the
// caller re-fetch so derived view state is always recomputed from the
// authoritative rows.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/electodo/electodo/internal/models"
)

// SortKey selects the ordering of a task list.
type SortKey string

const (
	// SortCreatedAt orders newest first. This is the default.
	SortCreatedAt SortKey = "created_at"
	// SortDueDate orders by due date ascending.
	SortDueDate SortKey = "due_date"
)

// Store runs all task, tag, and user queries against the database.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadTasks returns the owner's tasks with their tags preloaded. Ordering
// is fully determined by the sort key, with the row id as a stable tie
// breaker so repeated calls with identical inputs return identical lists.
func (s *Store) LoadTasks(ctx context.Context, owner uuid.UUID, sort SortKey, filterTag *uuid.UUID) ([]*models.Task, error) {
	q := s.db.WithContext(ctx).Model(&models.Task{}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Where("todos.user_id = ?", owner)

	if filterTag != nil {
		q = q.Joins("JOIN todo_tags ON todo_tags.task_id = todos.id").
			Where("todo_tags.tag_id = ?", *filterTag)
	}

	switch sort {
	case SortDueDate:
		q = q.Order("todos.due_date ASC").Order("todos.id ASC")
	default:
		q = q.Order("todos.created_at DESC").Order("todos.id ASC")
	}

	var tasks []*models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a task and then one association row per tag id. Tag
// ids must belong to the owner; foreign or unknown ids are rejected before
// anything is written. The two inserts are separate statements: if the
// association insert fails the task stays persisted and the error is a
// *PartialCreateError.
func (s *Store) CreateTask(ctx context.Context, owner uuid.UUID, title string, due *time.Time, tagIDs []uuid.UUID) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if len(tagIDs) > 0 {
		seen := make(map[uuid.UUID]bool, len(tagIDs))
		unique := make([]uuid.UUID, 0, len(tagIDs))
		for _, id := range tagIDs {
			if !seen[id] {
				seen[id] = true
				unique = append(unique, id)
			}
		}
		tagIDs = unique

		var count int64
		err := s.db.WithContext(ctx).Model(&models.Tag{}).
			Where("user_id = ? AND id IN ?", owner, tagIDs).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("check tags: %w", err)
		}
		if count != int64(len(tagIDs)) {
			return nil, ErrTagNotFound
		}
	}

	task := &models.Task{UserID: owner, Title: title}
	if due != nil {
		d := datatypes.Date(*due)
		task.DueDate = &d
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if len(tagIDs) > 0 {
		rows := make([]models.TodoTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			rows = append(rows, models.TodoTag{TaskID: task.ID, TagID: id})
		}
		if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
			return task, &PartialCreateError{Task: task, Err: err}
		}
	}

	if err := s.db.WithContext(ctx).Preload("Tags").First(task, "id = ?", task.ID).Error; err != nil {
		return task, fmt.Errorf("reload task: %w", err)
	}
	return task, nil
}

// SetTaskCompletion sets the completed flag on an owner's task. Setting
// the same value twice is a no-op, and a missing id is not an error.
func (s *Store) SetTaskCompletion(ctx context.Context, owner, taskID uuid.UUID, completed bool) error {
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, owner).
		Updates(map[string]interface{}{
			"completed":  completed,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// DeleteTask removes a task and its association rows. The owner-scoped
// row goes first: if nothing matched, the caller does not own the id and
// the associations stay untouched. Deleting an id that is already gone
// succeeds.
func (s *Store) DeleteTask(ctx context.Context, owner, taskID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, owner).
		Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&models.TodoTag{}).Error; err != nil {
		return fmt.Errorf("delete task associations: %w", err)
	}
	return nil
}

// LoadTags returns the owner's tags sorted by name ascending.
func (s *Store) LoadTags(ctx context.Context, owner uuid.UUID) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("name ASC").Order("id ASC").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}

// CreateTag inserts a tag after validating the name and checking for a
// case-insensitive duplicate within the owner's vocabulary.
func (s *Store) CreateTag(ctx context.Context, owner uuid.UUID, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}
	if utf8.RuneCountInString(name) > models.MaxTagNameLength {
		return nil, ErrTagNameTooLong
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", owner, name).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check tag name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateTag
	}

	tag := &models.Tag{UserID: owner, Name: name}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes a tag and its association rows, leaving the tasks
// themselves untouched. As with DeleteTask, the owner-scoped row goes
// first so a non-owner cannot strip someone else's associations. Deleting
// an id that is already gone succeeds.
func (s *Store) DeleteTag(ctx context.Context, owner, tagID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tagID, owner).
		Delete(&models.Tag{})
	if res.Error != nil {
		return fmt.Errorf("delete tag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Delete(&models.TodoTag{}).Error; err != nil {
		return fmt.Errorf("delete tag associations: %w", err)
	}
	return nil
}
