package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dto "tasker.com/tasker/internal/data_models"
	model "tasker.com/tasker/internal/models"
	repository "tasker.com/tasker/internal/repositories"
	"tasker.com/tasker/internal/services"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) {
	n.messages = append(n.messages, message)
}

func setupTestServer(t *testing.T) (*echo.Echo, *recordingNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	notifier := &recordingNotifier{}
	service := services.NewTaskService(repository.NewTaskRepository(db), notifier)

	e := echo.New()
	Register(e, NewHandler(service, lgr.NoOp), 1000, lgr.NoOp)
	return e, notifier
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) dto.TaskResponse {
	t.Helper()

	var resp dto.TaskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid task response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error response %q: %v", rec.Body.String(), err)
	}
	return resp.Message
}

func TestCreateTask(t *testing.T) {
	e, notifier := setupTestServer(t)

	rec := doRequest(t, e, http.MethodPost, "/tasks",
		`{"title":"Buy milk","description":"2 litres","due_date":"2099-01-31"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	task := decodeTask(t, rec)
	if task.ID != 1 || task.Title != "Buy milk" || task.Status != "in_progress" {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Description == nil || *task.Description != "2 litres" {
		t.Errorf("unexpected description %v", task.Description)
	}
	if task.DueDate == nil || *task.DueDate != "2099-01-31" {
		t.Errorf("unexpected due date %v", task.DueDate)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected a request id header")
	}
	if len(notifier.messages) != 1 {
		t.Errorf("expected 1 notification, got %v", notifier.messages)
	}
}

func TestCreateTask_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "malformed json", body: `{"title":`, code: http.StatusBadRequest},
		{name: "bad due date", body: `{"title":"x","due_date":"31/01/2099"}`, code: http.StatusBadRequest},
		{name: "empty title", body: `{"title":""}`, code: http.StatusUnprocessableEntity},
		{name: "long title", body: `{"title":"` + strings.Repeat("A", 31) + `"}`, code: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, notifier := setupTestServer(t)

			rec := doRequest(t, e, http.MethodPost, "/tasks", tt.body)

			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if errorMessage(t, rec) == "" {
				t.Error("expected an error message")
			}
			if len(notifier.messages) != 0 {
				t.Errorf("expected no notifications, got %v", notifier.messages)
			}
		})
	}
}

func TestGetTask(t *testing.T) {
	e, _ := setupTestServer(t)
	doRequest(t, e, http.MethodPost, "/tasks", `{"title":"Report","due_date":"2000-01-01"}`)

	rec := doRequest(t, e, http.MethodGet, "/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if task := decodeTask(t, rec); task.Status != "overdue" {
		t.Errorf("expected overdue, got %s", task.Status)
	}

	if rec := doRequest(t, e, http.MethodGet, "/tasks/99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodGet, "/tasks/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodGet, "/tasks/0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestListTasks(t *testing.T) {
	e, _ := setupTestServer(t)

	rec := doRequest(t, e, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"tasks":[]`) {
		t.Errorf("expected an empty tasks array, got %s", rec.Body.String())
	}

	doRequest(t, e, http.MethodPost, "/tasks", `{"title":"one"}`)
	doRequest(t, e, http.MethodPost, "/tasks", `{"title":"two"}`)

	rec = doRequest(t, e, http.MethodGet, "/tasks", "")
	var list dto.TaskListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid list response: %v", err)
	}
	if list.Count != 2 || len(list.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %+v", list)
	}
	if list.Tasks[0].Title != "one" || list.Tasks[1].Title != "two" {
		t.Errorf("unexpected order %+v", list.Tasks)
	}
}

func TestUpdateTask_NullAndAbsentFields(t *testing.T) {
	e, notifier := setupTestServer(t)
	doRequest(t, e, http.MethodPost, "/tasks",
		`{"title":"Plan trip","description":"book hotel","due_date":"2099-05-01"}`)

	rec := doRequest(t, e, http.MethodPatch, "/tasks/1", `{"title":"Plan holiday"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	task := decodeTask(t, rec)
	if task.Title != "Plan holiday" {
		t.Errorf("unexpected title %q", task.Title)
	}
	if task.Description == nil || task.DueDate == nil {
		t.Errorf("absent fields must be kept, got %+v", task)
	}

	rec = doRequest(t, e, http.MethodPatch, "/tasks/1", `{"description":null,"due_date":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	task = decodeTask(t, rec)
	if task.Description != nil || task.DueDate != nil {
		t.Errorf("null fields must be cleared, got %+v", task)
	}

	if len(notifier.messages) != 3 {
		t.Errorf("expected create and two update notifications, got %v", notifier.messages)
	}
}

func TestUpdateTask_Errors(t *testing.T) {
	e, _ := setupTestServer(t)
	doRequest(t, e, http.MethodPost, "/tasks", `{"title":"x"}`)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{name: "missing task", path: "/tasks/42", body: `{"title":"y"}`, code: http.StatusNotFound},
		{name: "unknown status", path: "/tasks/1", body: `{"status":"archived"}`, code: http.StatusBadRequest},
		{name: "bad date", path: "/tasks/1", body: `{"due_date":"soon"}`, code: http.StatusBadRequest},
		{name: "long description", path: "/tasks/1", body: `{"description":"` + strings.Repeat("d", 116) + `"}`, code: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, e, http.MethodPatch, tt.path, tt.body)
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestChangeTaskStatus(t *testing.T) {
	e, notifier := setupTestServer(t)
	doRequest(t, e, http.MethodPost, "/tasks", `{"title":"x"}`)

	rec := doRequest(t, e, http.MethodPut, "/tasks/1/status", `{"status":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if task := decodeTask(t, rec); task.Status != "done" {
		t.Errorf("expected done, got %s", task.Status)
	}

	rec = doRequest(t, e, http.MethodPut, "/tasks/1/status", `{"status":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(notifier.messages) != 2 {
		t.Errorf("repeating a status must not notify, got %v", notifier.messages)
	}

	if rec := doRequest(t, e, http.MethodPut, "/tasks/1/status", `{"status":"overdue"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for overdue, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodPut, "/tasks/1/status", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing status, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodPut, "/tasks/9/status", `{"status":"done"}`); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	e, notifier := setupTestServer(t)
	doRequest(t, e, http.MethodPost, "/tasks", `{"title":"x"}`)

	rec := doRequest(t, e, http.MethodDelete, "/tasks/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodDelete, "/tasks/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
	if len(notifier.messages) != 2 {
		t.Errorf("expected create and delete notifications, got %v", notifier.messages)
	}
}

func TestDueDateRoundTripsAsCalendarDay(t *testing.T) {
	e, _ := setupTestServer(t)
	tomorrow := model.FormatDate(time.Now().AddDate(0, 0, 1))

	rec := doRequest(t, e, http.MethodPost, "/tasks", `{"title":"Buy milk","due_date":"`+tomorrow+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	task := decodeTask(t, doRequest(t, e, http.MethodGet, "/tasks/1", ""))
	if task.DueDate == nil || *task.DueDate != tomorrow {
		t.Errorf("expected due date %s, got %v", tomorrow, task.DueDate)
	}
	if task.Status != "in_progress" {
		t.Errorf("expected in_progress, got %s", task.Status)
	}
}
