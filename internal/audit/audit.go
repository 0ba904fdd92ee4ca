// Package audit provides the pass journal: one JSON Lines entry per
// switch or resync pass, plus daemon lifecycle events.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/wsshift/internal/workspace"
)

// EventType classifies a journal entry.
type EventType string

const (
	EventSwitch  EventType = "switch"
	EventResync  EventType = "resync"
	EventSkipped EventType = "skipped"
	EventStart   EventType = "start"
	EventStop    EventType = "stop"
	EventError   EventType = "error"
)

// Event represents a single journal entry.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	Direction  string    `json:"direction,omitempty"`
	Shift      int       `json:"shift,omitempty"`
	Focused    int       `json:"focused"`
	Workspaces int       `json:"workspaces,omitempty"`
	Moved      int       `json:"moved"`
	Skipped    int       `json:"skipped,omitempty"`
	Details    string    `json:"details,omitempty"`
}

// Logger appends to and reads the journal at a single path.
type Logger struct {
	path string
	now  func() time.Time
}

// NewLogger creates a journal stored at path.
func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Path returns the journal file location.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an event to the journal.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method for lifecycle events.
func (l *Logger) LogEvent(eventType EventType, details string) error {
	return l.Log(Event{
		Type:    eventType,
		Details: details,
	})
}

// Record journals a finished pass.
func (l *Logger) Record(report workspace.PassReport) error {
	event := Event{
		Type:       EventType(report.Kind),
		Shift:      report.Shift,
		Focused:    report.Focused,
		Workspaces: report.Workspaces,
		Moved:      report.Moved,
		Skipped:    report.Skipped,
	}
	if report.Kind != workspace.PassSkipped {
		event.Direction = report.Direction.String()
	} else {
		event.Details = "automatic switching disabled"
	}
	return l.Log(event)
}

// Events reads all events in chronological order.
func (l *Logger) Events() ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}

// Tail returns at most the last n events; n <= 0 returns all of them.
func (l *Logger) Tail(n int) ([]Event, error) {
	events, err := l.Events()
	if err != nil || n <= 0 || len(events) <= n {
		return events, err
	}
	return events[len(events)-n:], nil
}

// Remove deletes the journal.
func (l *Logger) Remove() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ workspace.Recorder = (*Logger)(nil)
