// Package tui is the interactive terminal front-end for the task service.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasker.com/tasker/internal/constants"
	model "tasker.com/tasker/internal/models"
	"tasker.com/tasker/internal/notifications"
	"tasker.com/tasker/internal/services"
)

const maxNotifications = 5

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type (
	tasksLoadedMsg struct {
		tasks []*model.Task
		err   error
	}
	detailLoadedMsg struct {
		id   int
		task *model.Task
		err  error
	}
	taskChangedMsg struct {
		message string
		err     error
	}
	notificationsMsg struct {
		offset int
		next   int
		lines  []string
		err    error
	}
	pollTickMsg time.Time
)

type tuiModel struct {
	ctx           context.Context
	tasks         *services.TaskService
	notifications notifications.Log
	pollInterval  time.Duration

	width  int
	height int

	table      table.Model
	input      textinput.Model
	adding     bool
	selectedID int
	detail     *model.Task

	notes      []string
	noteOffset int

	status      string
	statusLevel statusLevel
}

// Run blocks until the user quits or ctx is cancelled.
func Run(
	ctx context.Context,
	tasks *services.TaskService,
	log notifications.Log,
	pollInterval time.Duration,
) error {
	if tasks == nil {
		return errors.New("task service is required")
	}
	program := tea.NewProgram(newModel(ctx, tasks, log, pollInterval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(
	ctx context.Context,
	tasks *services.TaskService,
	log notifications.Log,
	pollInterval time.Duration,
) tuiModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Title", Width: services.MaxTitleLength},
			{Title: "Status", Width: 12},
			{Title: "Due Date", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	t.SetStyles(styles)

	input := textinput.New()
	input.Placeholder = "Title (append @YYYY-MM-DD for a due date)"
	input.CharLimit = services.MaxTitleLength + len(" @2006-01-02")

	return tuiModel{
		ctx:           ctx,
		tasks:         tasks,
		notifications: log,
		pollInterval:  pollInterval,
		table:         t,
		input:         input,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.loadTasksCmd(), m.fetchNotificationsCmd(), m.pollCmd())
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.handleKey(msg)
	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)
	case detailLoadedMsg:
		if msg.id != m.selectedID {
			return m, nil
		}
		if msg.err != nil {
			m.detail = nil
			m.setStatus(statusError, msg.err.Error())
			return m, nil
		}
		m.detail = msg.task
		return m, nil
	case taskChangedMsg:
		if msg.err != nil {
			m.setStatus(statusError, msg.err.Error())
			return m, nil
		}
		m.setStatus(statusInfo, msg.message)
		return m, tea.Batch(m.loadTasksCmd(), m.fetchNotificationsCmd())
	case notificationsMsg:
		if msg.err != nil {
			m.setStatus(statusError, msg.err.Error())
			return m, nil
		}
		// a newer read already covered these lines
		if msg.offset != m.noteOffset {
			return m, nil
		}
		m.appendNotes(msg.lines, msg.next)
		return m, nil
	case pollTickMsg:
		return m, tea.Batch(m.fetchNotificationsCmd(), m.pollCmd())
	}

	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a":
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	case "r":
		m.setStatus(statusNone, "")
		return m, m.loadTasksCmd()
	case "enter":
		if m.detail == nil {
			return m, nil
		}
		next := constants.StatusDone
		if m.detail.Status == constants.StatusDone {
			next = constants.StatusInProgress
		}
		return m, m.changeStatusCmd(m.detail.ID, next)
	case "d":
		if m.selectedID == 0 {
			return m, nil
		}
		return m, m.changeStatusCmd(m.selectedID, constants.StatusDone)
	case "x":
		if m.selectedID == 0 {
			return m, nil
		}
		return m, m.deleteTaskCmd(m.selectedID)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if m.syncSelection() {
		return m, tea.Batch(cmd, m.loadDetailCmd(m.selectedID))
	}
	return m, cmd
}

func (m tuiModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		title, due := parseNewTask(m.input.Value())
		m.adding = false
		m.input.Blur()
		return m, m.createTaskCmd(title, due)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(statusError, msg.err.Error())
		return m, nil
	}

	rows := make([]table.Row, 0, len(msg.tasks))
	for _, task := range msg.tasks {
		due := "N/A"
		if task.DueDate != nil {
			due = model.FormatDate(*task.DueDate)
		}
		rows = append(rows, table.Row{strconv.Itoa(task.ID), task.Title, task.Status.Label(), due})
	}
	m.table.SetRows(rows)

	if len(rows) == 0 {
		m.selectedID = 0
		m.detail = nil
		return m, nil
	}
	if m.table.Cursor() >= len(rows) || m.table.Cursor() < 0 {
		m.table.SetCursor(0)
	}

	m.syncSelection()
	return m, m.loadDetailCmd(m.selectedID)
}

// syncSelection reads the highlighted row and reports whether it changed.
func (m *tuiModel) syncSelection() bool {
	row := m.table.SelectedRow()
	id := 0
	if len(row) > 0 {
		id, _ = strconv.Atoi(row[0])
	}
	if id == m.selectedID {
		return false
	}
	m.selectedID = id
	return true
}

// appendNotes records lines read up to next. A next below the current offset
// means the log was truncated and the reader started over.
func (m *tuiModel) appendNotes(lines []string, next int) {
	m.noteOffset = next
	m.notes = append(m.notes, lines...)
	if len(m.notes) > maxNotifications {
		m.notes = m.notes[len(m.notes)-maxNotifications:]
	}
}

func (m *tuiModel) setStatus(level statusLevel, text string) {
	m.statusLevel = level
	m.status = text
}

func (m *tuiModel) resize() {
	height := m.height - 4 - maxNotifications - 4
	if height < 3 {
		height = 3
	}
	m.table.SetHeight(height)
}

func (m tuiModel) View() string {
	header := titleStyle.Render("Tasker TUI")

	list := paneStyle.Render(paneTitle.Render("Tasks list") + "\n" + m.table.View())
	details := paneStyle.Render(paneTitle.Render("Details") + "\n" + m.renderDetail())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, details)

	notes := valueMuted.Render("No notifications yet.")
	if len(m.notes) > 0 {
		notes = strings.Join(m.notes, "\n")
	}
	notesPane := paneStyle.Render(paneTitle.Render("Notifications") + "\n" + notes)

	parts := []string{header, body, notesPane}
	if m.adding {
		parts = append(parts, labelStyle.Render("New task: ")+m.input.View())
	}
	parts = append(parts, m.renderStatusLine(), helpStyle.Render(helpLine))
	return strings.Join(parts, "\n")
}

const helpLine = "q quit · a add · enter toggle done · d complete · x delete · r refresh"

func (m tuiModel) renderDetail() string {
	if m.detail == nil {
		return valueMuted.Render("No task selected.")
	}

	task := m.detail
	desc := "N/A"
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		desc = strings.TrimSpace(*task.Description)
	}
	due := "N/A"
	if task.DueDate != nil {
		due = model.FormatDate(*task.DueDate)
	}

	return strings.Join([]string{
		labelStyle.Render("ID: ") + strconv.Itoa(task.ID),
		labelStyle.Render("Title: ") + task.Title,
		labelStyle.Render("Status: ") + renderStatus(task.Status),
		labelStyle.Render("Due date: ") + due,
		"",
		labelStyle.Render("Description:"),
		desc,
	}, "\n")
}

func (m tuiModel) renderStatusLine() string {
	switch m.statusLevel {
	case statusError:
		return errorStyle.Render(m.status)
	case statusInfo:
		return infoStyle.Render(m.status)
	default:
		return ""
	}
}

func (m tuiModel) loadTasksCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.tasks.ListTasks(m.ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m tuiModel) loadDetailCmd(id int) tea.Cmd {
	if id == 0 {
		return nil
	}
	return func() tea.Msg {
		task, err := m.tasks.GetTask(m.ctx, id)
		return detailLoadedMsg{id: id, task: task, err: err}
	}
}

func (m tuiModel) createTaskCmd(title string, due *time.Time) tea.Cmd {
	return func() tea.Msg {
		task, err := m.tasks.CreateTask(m.ctx, title, nil, due)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{message: fmt.Sprintf("Created task %d", task.ID)}
	}
}

func (m tuiModel) changeStatusCmd(id int, status constants.TaskStatus) tea.Cmd {
	return func() tea.Msg {
		task, err := m.tasks.ChangeTaskStatus(m.ctx, id, status)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{message: fmt.Sprintf("Task %d is %s", task.ID, task.Status.Label())}
	}
}

func (m tuiModel) deleteTaskCmd(id int) tea.Cmd {
	return func() tea.Msg {
		deleted, err := m.tasks.DeleteTask(m.ctx, id)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		if !deleted {
			return taskChangedMsg{err: fmt.Errorf("task %d not found", id)}
		}
		return taskChangedMsg{message: fmt.Sprintf("Deleted task %d", id)}
	}
}

func (m tuiModel) fetchNotificationsCmd() tea.Cmd {
	if m.notifications == nil {
		return nil
	}
	offset := m.noteOffset
	return func() tea.Msg {
		lines, next, err := m.notifications.Entries(m.ctx, offset)
		return notificationsMsg{offset: offset, next: next, lines: lines, err: err}
	}
}

func (m tuiModel) pollCmd() tea.Cmd {
	if m.notifications == nil || m.pollInterval <= 0 {
		return nil
	}
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// parseNewTask splits "Title @2026-01-31" into a title and a due date. Input
// without a trailing date is all title.
func parseNewTask(input string) (string, *time.Time) {
	input = strings.TrimSpace(input)
	idx := strings.LastIndex(input, " @")
	if idx < 0 {
		return input, nil
	}

	due, err := model.ParseDate(strings.TrimSpace(input[idx+2:]))
	if err != nil {
		return input, nil
	}
	return strings.TrimSpace(input[:idx]), &due
}
