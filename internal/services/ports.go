package services

import (
	"context"

	model "tasker.com/tasker/internal/models"
)

// TaskRepository is the storage the task use cases run against. Get and
// Update return errors.ErrTaskNotFound for unknown ids; Delete does not.
type TaskRepository interface {
	Add(ctx context.Context, task *model.Task) error
	Get(ctx context.Context, id int) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*model.Task, error)
}

// Notifier receives human-readable change messages. Implementations handle
// their own failures; the use cases never wait on them for correctness.
type Notifier interface {
	Notify(ctx context.Context, message string)
}
