package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tasker.com/tasker/internal/constants"
)

var (
	ErrInvalidTitle  = errors.New("task title is required")
	ErrInvalidStatus = errors.New("invalid task status")
)

// Task is a single tracked item. Fields are exported for the storage layer;
// callers outside the use-case layer must not mutate them directly.
type Task struct {
	ID          int                  `gorm:"primaryKey;autoIncrement"`
	Title       string               `gorm:"not null"`
	Description *string              `gorm:"size:115"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null"`
	DueDate     *time.Time
}

// NewTask builds a task and enforces its own invariants. An empty status
// defaults to in_progress.
func NewTask(
	id int,
	title string,
	description *string,
	status constants.TaskStatus,
	dueDate *time.Time,
) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}

	if status == "" {
		status = constants.StatusInProgress
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	task := &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
	}
	if dueDate != nil {
		d := DateOf(*dueDate)
		task.DueDate = &d
	}

	return task, nil
}

func (t *Task) MarkDone() {
	t.Status = constants.StatusDone
}

func (t *Task) MarkInProgress() {
	t.Status = constants.StatusInProgress
}

func (t *Task) MarkOverdue() {
	t.Status = constants.StatusOverdue
}

// IsOverdue reports whether an in-progress task is past its due date as of
// now. It never changes the status.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status != constants.StatusInProgress {
		return false
	}
	return DateOf(*t.DueDate).Before(DateOf(now))
}

// Snapshot is the comparable, user-visible state of a task.
type Snapshot struct {
	Title       string
	Description string
	HasDesc     bool
	Status      constants.TaskStatus
	DueDate     string
}

func (t *Task) Snapshot() Snapshot {
	s := Snapshot{
		Title:  t.Title,
		Status: t.Status,
	}
	if t.Description != nil {
		s.Description = *t.Description
		s.HasDesc = true
	}
	if t.DueDate != nil {
		s.DueDate = FormatDate(*t.DueDate)
	}
	return s
}
