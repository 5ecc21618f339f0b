package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tasker.com/tasker/internal/constants"
	apperrors "tasker.com/tasker/internal/errors"
	model "tasker.com/tasker/internal/models"
)

const (
	MaxTitleLength       = 30
	MaxDescriptionLength = 115
)

// Nullable is an optional update field that can also be cleared.
// The zero value leaves the field unchanged.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func Cleared[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// TaskUpdate lists the fields UpdateTask may change. Nil pointers and unset
// Nullables are left as they are.
type TaskUpdate struct {
	Title       *string
	Description Nullable[string]
	Status      *constants.TaskStatus
	DueDate     Nullable[time.Time]
}

type TaskService struct {
	repo     TaskRepository
	notifier Notifier
	now      func() time.Time
}

func NewTaskService(repo TaskRepository, notifier Notifier) *TaskService {
	return &TaskService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *TaskService) CreateTask(
	ctx context.Context,
	title string,
	description *string,
	dueDate *time.Time,
) (*model.Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	task, err := model.NewTask(0, title, description, constants.StatusInProgress, dueDate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Add(ctx, task); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Task created: %s (id=%d)", task.Title, task.ID))
	return task, nil
}

// GetTask returns the stored task after bringing its overdue status up to
// date.
func (s *TaskService) GetTask(ctx context.Context, id int) (*model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.UpdateOverdueTasks(ctx, []*model.Task{task}); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.UpdateOverdueTasks(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// DeleteTask reports false when there was nothing to delete.
func (s *TaskService) DeleteTask(ctx context.Context, id int) (bool, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Task deleted: %s (id=%d)", task.Title, task.ID))
	return true, nil
}

// UpdateOverdueTasks marks and persists every task in the batch that has
// slipped past its due date. A second pass over the same batch is a no-op.
func (s *TaskService) UpdateOverdueTasks(ctx context.Context, tasks []*model.Task) error {
	now := s.now()
	for _, task := range tasks {
		if !task.IsOverdue(now) {
			continue
		}

		task.MarkOverdue()
		if err := s.repo.Update(ctx, task); err != nil {
			return fmt.Errorf("could not mark task %d overdue: %w", task.ID, err)
		}
	}
	return nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int, upd TaskUpdate) (*model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var title string
	if upd.Title != nil {
		if title, err = validateTitle(*upd.Title); err != nil {
			return nil, err
		}
	}
	if upd.Description.Set {
		if err := validateDescription(upd.Description.Value); err != nil {
			return nil, err
		}
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *upd.Status))
	}

	now := s.now()
	before := task.Snapshot()

	if upd.Title != nil {
		task.Title = title
	}

	if upd.Description.Set {
		task.Description = upd.Description.Value
	}

	if upd.Status != nil {
		task.Status = *upd.Status
		if task.IsOverdue(now) {
			task.MarkOverdue()
		}
	}

	if upd.DueDate.Set {
		if upd.DueDate.Value == nil {
			task.DueDate = nil
		} else {
			due := model.DateOf(*upd.DueDate.Value)
			task.DueDate = &due
			if task.Status == constants.StatusOverdue && !due.Before(model.DateOf(now)) {
				task.MarkInProgress()
			}
		}
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.Snapshot() != before {
		s.notifier.Notify(ctx, fmt.Sprintf("Task updated: %s (id=%d)", task.Title, task.ID))
	}

	return task, nil
}

// ChangeTaskStatus moves a task to done or in_progress. Overdue is derived
// from the due date and always wins over a requested in_progress.
func (s *TaskService) ChangeTaskStatus(
	ctx context.Context,
	id int,
	status constants.TaskStatus,
) (*model.Task, error) {
	switch status {
	case constants.StatusDone, constants.StatusInProgress:
	case constants.StatusOverdue:
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("status %q cannot be set directly", status))
	default:
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	old := task.Status
	if status == old && !task.IsOverdue(now) {
		return task, nil
	}

	if status == constants.StatusDone {
		task.MarkDone()
	} else {
		task.MarkInProgress()
	}

	if task.IsOverdue(now) {
		task.MarkOverdue()
	}

	if task.Status == old {
		return task, nil
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Task %d: status changed from %s to %s", task.ID, old, task.Status))
	return task, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.NewValidationError("title", "title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", apperrors.NewValidationError("title", fmt.Sprintf("title must be 1-%d characters", MaxTitleLength))
	}
	return title, nil
}

func validateDescription(description *string) error {
	if description == nil {
		return nil
	}
	if utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return apperrors.NewValidationError(
			"description",
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
		)
	}
	return nil
}
