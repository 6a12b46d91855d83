// Package eventlog appends interview engine events to events.jsonl.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventSessionCreated    = "session_created"
	EventSessionStarted    = "session_started"
	EventQuestionActivated = "question_activated"
	EventAnswerSubmitted   = "answer_submitted"
	EventScoreApplied      = "score_applied"
	EventEvaluationFailed  = "evaluation_failed"
	EventEvaluationRetry   = "evaluation_retry"
	EventQuestionAbandoned = "question_abandoned"
	EventSessionCompleted  = "session_completed"
	EventSessionDeleted    = "session_deleted"
)

// Event is one line of the log.
type Event struct {
	Time       time.Time `json:"time"`
	Event      string    `json:"event"`
	SessionID  string    `json:"session"`
	QuestionID string    `json:"question,omitempty"`
	Index      int       `json:"index,omitempty"` // 1-based question position
	Difficulty string    `json:"difficulty,omitempty"`
	Elapsed    int       `json:"elapsed,omitempty"`
	Score      *float64  `json:"score,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	Attempt    int       `json:"attempt,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Logger writes append-only JSONL events. A nil *Logger discards events.
type Logger struct {
	path string
	mu   sync.Mutex
}

// New returns a Logger writing to events.jsonl inside dir, creating dir if
// needed. An existing log is never truncated.
func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &Logger{path: filepath.Join(dir, "events.jsonl")}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Append writes e as one JSON line. A zero Time is set to now, in UTC.
func (l *Logger) Append(e Event) error {
	if l == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}
	return nil
}

// ReadAll parses every event in the log. A missing file yields no events.
func (l *Logger) ReadAll() ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return events, nil
}

// ForSession returns the events of one session in log order.
func (l *Logger) ForSession(id string) ([]Event, error) {
	all, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	out := []Event{}
	for _, e := range all {
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out, nil
}
