package http

import (
	"net/http"

	"github.com/go-pkgz/lgr"
	"github.com/labstack/echo/v4"

	dto "tasker.com/tasker/internal/data_models"
	apperrors "tasker.com/tasker/internal/errors"
	"tasker.com/tasker/internal/http/validators"
	"tasker.com/tasker/internal/services"
)

type Handler struct {
	taskService *services.TaskService
	log         lgr.L
}

func NewHandler(taskService *services.TaskService, log lgr.L) *Handler {
	return &Handler{
		taskService: taskService,
		log:         log,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}
	dueDate, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req.Title, req.Description, dueDate)
	if err != nil {
		return h.fail(c, err, "failed to create task")
	}

	return c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := validators.ParseTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "failed to get task")
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "failed to list tasks")
	}

	return c.JSON(http.StatusOK, dto.NewTaskListResponse(tasks))
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := validators.ParseTaskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}
	upd, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), id, upd)
	if err != nil {
		return h.fail(c, err, "failed to update task")
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *Handler) ChangeTaskStatus(c echo.Context) error {
	id, err := validators.ParseTaskID(c)
	if err != nil {
		return err
	}

	var req dto.ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}
	status, err := validators.ValidateChangeStatusRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.ChangeTaskStatus(c.Request().Context(), id, status)
	if err != nil {
		return h.fail(c, err, "failed to change task status")
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := validators.ParseTaskID(c)
	if err != nil {
		return err
	}

	deleted, err := h.taskService.DeleteTask(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "failed to delete task")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrTaskNotFound.Message)
	}

	return c.NoContent(http.StatusNoContent)
}

// fail turns a service error into an HTTP error. Unexpected errors are logged
// and answered with a generic message.
func (h *Handler) fail(c echo.Context, err error, message string) error {
	code := apperrors.StatusCode(err)
	if code == http.StatusInternalServerError {
		h.log.Logf("[ERROR] %s %s: %s: %v", c.Request().Method, c.Path(), message, err)
		return echo.NewHTTPError(code, message)
	}
	return echo.NewHTTPError(code, err.Error())
}
