package dto

import (
	"bytes"
	"encoding/json"

	model "tasker.com/tasker/internal/models"
	"tasker.com/tasker/internal/services"
)

// Nullable is services.Nullable decoded from JSON: an absent field stays
// unset, an explicit null clears.
type Nullable[T any] services.Nullable[T]

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description Nullable[string] `json:"description"`
	Status      *string          `json:"status"`
	DueDate     Nullable[string] `json:"due_date"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type TaskResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

func NewTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
	}
	if task.DueDate != nil {
		due := model.FormatDate(*task.DueDate)
		resp.DueDate = &due
	}
	return resp
}

type TaskListResponse struct {
	Count int            `json:"count"`
	Tasks []TaskResponse `json:"tasks"`
}

func NewTaskListResponse(tasks []*model.Task) TaskListResponse {
	resp := TaskListResponse{
		Count: len(tasks),
		Tasks: make([]TaskResponse, 0, len(tasks)),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, NewTaskResponse(task))
	}
	return resp
}
