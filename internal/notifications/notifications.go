// Package notifications holds the sinks that record task change messages and
// let the terminal UI tail them.
package notifications

import (
	"context"
	"fmt"
	"time"
)

// Log is an append-only notification sink that can be read back.
type Log interface {
	Notify(ctx context.Context, message string)
	// Entries returns the formatted lines from index offset onwards and the
	// offset to read from next time. When the log shrank below offset it
	// starts over from the first line.
	Entries(ctx context.Context, offset int) ([]string, int, error)
}

func formatLine(now time.Time, message string) string {
	return fmt.Sprintf("[%s] %s", now.Format("2006-01-02T15:04:05"), message)
}
