package validators

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"tasker.com/tasker/internal/constants"
	dto "tasker.com/tasker/internal/data_models"
	apperrors "tasker.com/tasker/internal/errors"
	model "tasker.com/tasker/internal/models"
	"tasker.com/tasker/internal/services"
)

func ParseTaskID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidTaskID.Message)
	}
	return id, nil
}

// ValidateCreateTaskRequest checks the request shape and returns the parsed
// due date. Title and description rules are enforced by the task service.
func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (*time.Time, error) {
	if r.DueDate == nil {
		return nil, nil
	}
	due, err := parseDate(*r.DueDate)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (services.TaskUpdate, error) {
	upd := services.TaskUpdate{
		Title: r.Title,
		Description: services.Nullable[string](r.Description),
	}

	if r.Status != nil {
		status, err := parseStatus(*r.Status)
		if err != nil {
			return services.TaskUpdate{}, err
		}
		upd.Status = &status
	}

	if r.DueDate.Set {
		upd.DueDate = services.Cleared[time.Time]()
		if r.DueDate.Value != nil {
			due, err := parseDate(*r.DueDate.Value)
			if err != nil {
				return services.TaskUpdate{}, err
			}
			upd.DueDate = services.SetTo(due)
		}
	}

	return upd, nil
}

func ValidateChangeStatusRequest(r *dto.ChangeStatusRequest) (constants.TaskStatus, error) {
	if r.Status == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	return parseStatus(r.Status)
}

func parseStatus(v string) (constants.TaskStatus, error) {
	status, err := constants.ParseTaskStatus(v)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return status, nil
}

func parseDate(v string) (time.Time, error) {
	due, err := model.ParseDate(v)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return due, nil
}
