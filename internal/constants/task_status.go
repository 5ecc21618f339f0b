package constants

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type TaskStatus string

const (
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusOverdue    TaskStatus = "overdue"
)

var taskStatuses = []TaskStatus{StatusInProgress, StatusDone, StatusOverdue}

func TaskStatuses() []TaskStatus {
	return append([]TaskStatus(nil), taskStatuses...)
}

func (s TaskStatus) IsValid() bool {
	for _, known := range taskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

func ParseTaskStatus(v string) (TaskStatus, error) {
	s := TaskStatus(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown task status %q", v)
	}
	return s, nil
}

// Label is the human form of the status, e.g. "In Progress".
func (s TaskStatus) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}
