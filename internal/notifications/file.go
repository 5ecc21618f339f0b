package notifications

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

// FileLog appends one timestamped line per notification to a text file.
type FileLog struct {
	path string
	log  lgr.L
	now  func() time.Time

	mu sync.Mutex
}

func NewFileLog(path string, log lgr.L) *FileLog {
	return &FileLog{
		path: path,
		log:  log,
		now:  time.Now,
	}
}

func (f *FileLog) Notify(_ context.Context, message string) {
	if err := f.append(formatLine(f.now(), message)); err != nil {
		f.log.Logf("[WARN] could not write notification to %s: %v", f.path, err)
	}
}

func (f *FileLog) append(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(file, line); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Entries reads the file from the start. A missing file has no entries; an
// offset past the end (the file was truncated) returns everything.
func (f *FileLog) Entries(_ context.Context, offset int) ([]string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, offset, fmt.Errorf("could not open notifications: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, offset, fmt.Errorf("could not read notifications: %w", err)
	}

	if offset < 0 || offset > len(lines) {
		offset = 0
	}
	return lines[offset:], len(lines), nil
}
