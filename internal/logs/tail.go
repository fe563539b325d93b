package logs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"openpublish/internal/logging"
)

// DefaultPollInterval is how often Follow checks the file for new lines.
const DefaultPollInterval = 250 * time.Millisecond

// Query selects log lines.
type Query struct {
	// Limit keeps the last Limit matching lines. Zero or less keeps all.
	Limit  int
	RunID  string
	Plugin string
}

func (q Query) matches(line string) bool {
	if q.RunID == "" && q.Plugin == "" {
		return true
	}
	var fields map[string]any
	if strings.HasPrefix(line, "{") && json.Unmarshal([]byte(line), &fields) == nil {
		return fieldMatches(fields, logging.FieldRunID, q.RunID) &&
			fieldMatches(fields, logging.FieldPlugin, q.Plugin)
	}
	if q.RunID != "" && !strings.Contains(line, logging.FieldRunID+"="+q.RunID) {
		return false
	}
	return q.Plugin == "" || strings.Contains(line, q.Plugin)
}

func fieldMatches(fields map[string]any, key, want string) bool {
	if want == "" {
		return true
	}
	value, ok := fields[key].(string)
	return ok && value == want
}

// Result holds matching lines and the file offset after the last one read.
type Result struct {
	Lines  []string
	Offset int64
}

// Tail reads path from the start and returns the last q.Limit matching
// lines. A missing file yields an empty result.
func Tail(ctx context.Context, path string, q Query) (Result, error) {
	var ring []string
	next := 0
	offset, err := scan(ctx, path, 0, func(line string) error {
		if !q.matches(line) {
			return nil
		}
		if q.Limit <= 0 {
			ring = append(ring, line)
			return nil
		}
		if len(ring) < q.Limit {
			ring = append(ring, line)
			return nil
		}
		ring[next] = line
		next = (next + 1) % q.Limit
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	lines := append(ring[next:len(ring):len(ring)], ring[:next]...)
	return Result{Lines: lines, Offset: offset}, nil
}

// Follow emits matching lines appended after offset until ctx ends or emit
// fails. Limit is ignored. A truncated file is read again from the start.
func Follow(ctx context.Context, path string, offset int64, q Query, poll time.Duration, emit func(string) error) error {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if info, err := os.Stat(path); err == nil && info.Size() < offset {
			offset = 0
		}
		next, err := scan(ctx, path, offset, func(line string) error {
			if q.matches(line) {
				return emit(line)
			}
			return nil
		})
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// scan calls fn for every complete line at or after offset and returns the
// offset just past the last complete line.
func scan(ctx context.Context, path string, offset int64, fn func(string) error) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return offset, fmt.Errorf("log path %q is a directory", path)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return offset, err
		}
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			// A partial line is left for the next read.
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		if err := fn(strings.TrimRight(line, "\r\n")); err != nil {
			return offset, err
		}
	}
}
