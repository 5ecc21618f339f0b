package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "tasker.com/tasker/internal/errors"
	model "tasker.com/tasker/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Add inserts task and stores the generated id back on it.
func (r *TaskRepository) Add(ctx context.Context, task *model.Task) error {
	task.ID = 0
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("could not get task: %w", err)
	}
	normalize(&task)
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*model.Task, error) {
	var tasks []*model.Task
	if err := r.db.WithContext(ctx).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}
	for _, task := range tasks {
		normalize(task)
	}
	return tasks, nil
}

// Update writes every mutable column, including NULLs for cleared optional
// fields. It returns ErrTaskNotFound when the row is gone.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"due_date":    task.DueDate,
		})

	if res.Error != nil {
		return fmt.Errorf("could not update task: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// Delete is a no-op for unknown ids.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("could not remove task: %w", err)
	}
	return nil
}

func normalize(task *model.Task) {
	if task.DueDate != nil {
		d := model.DateOf(task.DueDate.UTC())
		task.DueDate = &d
	}
}
