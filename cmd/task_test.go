package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tasker.com/tasker/internal/constants"
	apperrors "tasker.com/tasker/internal/errors"
	model "tasker.com/tasker/internal/models"
)

func parseEditFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "edit"}
	addEditFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}
	return cmd
}

func TestTaskUpdateFromFlags(t *testing.T) {
	t.Run("no flags leave everything unchanged", func(t *testing.T) {
		upd, err := taskUpdateFromFlags(parseEditFlags(t))
		if err != nil {
			t.Fatalf("taskUpdateFromFlags() error = %v", err)
		}
		if upd.Title != nil || upd.Status != nil || upd.Description.Set || upd.DueDate.Set {
			t.Errorf("expected an empty update, got %+v", upd)
		}
	})

	t.Run("empty description is a value", func(t *testing.T) {
		upd, err := taskUpdateFromFlags(parseEditFlags(t, "--description="))
		if err != nil {
			t.Fatalf("taskUpdateFromFlags() error = %v", err)
		}
		if !upd.Description.Set || upd.Description.Value == nil || *upd.Description.Value != "" {
			t.Errorf("expected an empty description to be set, got %+v", upd.Description)
		}
	})

	t.Run("clear flags", func(t *testing.T) {
		upd, err := taskUpdateFromFlags(parseEditFlags(t, "--clear-description", "--clear-due"))
		if err != nil {
			t.Fatalf("taskUpdateFromFlags() error = %v", err)
		}
		if !upd.Description.Set || upd.Description.Value != nil {
			t.Errorf("expected description to be cleared, got %+v", upd.Description)
		}
		if !upd.DueDate.Set || upd.DueDate.Value != nil {
			t.Errorf("expected due date to be cleared, got %+v", upd.DueDate)
		}
	})

	t.Run("values", func(t *testing.T) {
		upd, err := taskUpdateFromFlags(parseEditFlags(t, "--title", "New", "--status", "done", "--due", "2026-12-01"))
		if err != nil {
			t.Fatalf("taskUpdateFromFlags() error = %v", err)
		}
		if upd.Title == nil || *upd.Title != "New" {
			t.Errorf("unexpected title %v", upd.Title)
		}
		if upd.Status == nil || *upd.Status != constants.StatusDone {
			t.Errorf("unexpected status %v", upd.Status)
		}
		if upd.DueDate.Value == nil || model.FormatDate(*upd.DueDate.Value) != "2026-12-01" {
			t.Errorf("unexpected due date %+v", upd.DueDate)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		if _, err := taskUpdateFromFlags(parseEditFlags(t, "--status", "later")); err == nil {
			t.Error("expected an error for an unknown status")
		}
		if _, err := taskUpdateFromFlags(parseEditFlags(t, "--due", "12/01/2026")); err == nil {
			t.Error("expected an error for a malformed date")
		}
	})
}

func TestParseID(t *testing.T) {
	if id, err := parseID("12"); err != nil || id != 12 {
		t.Errorf("parseID(12) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc", ""} {
		if _, err := parseID(bad); !errors.Is(err, apperrors.ErrInvalidTaskID) {
			t.Errorf("parseID(%q) expected ErrInvalidTaskID, got %v", bad, err)
		}
	}
}

func TestPrintTaskTable(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var empty bytes.Buffer
	printTaskTable(&empty, nil)
	if empty.String() != "no tasks\n" {
		t.Errorf("unexpected output for no tasks: %q", empty.String())
	}

	due := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	tasks := []*model.Task{
		{ID: 1, Title: "Buy milk", Status: constants.StatusInProgress},
		{ID: 2, Title: "Report", Status: constants.StatusOverdue, DueDate: &due},
	}

	var out bytes.Buffer
	printTaskTable(&out, tasks)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out.String())
	}
	for _, want := range []string{"Buy milk", "In Progress", "N/A"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row 1 %q is missing %q", lines[1], want)
		}
	}
	for _, want := range []string{"Report", "Overdue", "2026-02-03"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("row 2 %q is missing %q", lines[2], want)
		}
	}
}
