// Package session holds one candidate's interview session and the state
// machine that drives it. A Session is owned by a single caller at a time;
// none of its methods are safe for concurrent use.
package session

import (
	"strings"
	"time"

	"github.com/fakeyudi/screener/internal/question"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Timer is the countdown of the question at the cursor. QuestionID ties the
// countdown to one question so a restored snapshot resumes the same clock.
type Timer struct {
	QuestionID string `json:"question_id,omitempty"`
	Remaining  int    `json:"remaining"`
	Active     bool   `json:"active"`
	Expired    bool   `json:"expired,omitempty"`
}

// Session is a candidate's full question, answer and score record.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	ResumeFileName string `json:"resume_file_name,omitempty"`
	ResumeText     string `json:"resume_text,omitempty"`

	Questions []question.Question `json:"questions"`
	Cursor    int                 `json:"cursor"`
	Status    Status              `json:"status"`
	Timer     Timer               `json:"timer"`

	// AwaitingCompletion is set once Advance has reported ReadyToComplete.
	AwaitingCompletion bool `json:"awaiting_completion,omitempty"`

	FinalScore   *float64   `json:"final_score,omitempty"`
	FinalSummary string     `json:"final_summary,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	// Clock overrides time.Now for timestamps. Tests set it.
	Clock func() time.Time `json:"-"`
}

// New returns an empty session in the Collecting state.
func New(id string) *Session {
	return &Session{
		ID:        id,
		Questions: []question.Question{},
		Status:    StatusCollecting,
		CreatedAt: time.Now(),
	}
}

func (s *Session) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// MissingContact lists the contact fields still empty, in asking order.
func (s *Session) MissingContact() []string {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Current returns the question at the cursor while the session is in progress.
func (s *Session) Current() (*question.Question, bool) {
	if s.Status != StatusInProgress || s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return nil, false
	}
	return &s.Questions[s.Cursor], true
}

// IsLast reports whether the cursor is on the final question.
func (s *Session) IsLast() bool {
	return len(s.Questions) > 0 && s.Cursor == len(s.Questions)-1
}

// Remaining returns the seconds left on the active countdown, 0 when none.
func (s *Session) Remaining() int {
	if !s.Timer.Active {
		return 0
	}
	return s.Timer.Remaining
}

// TimerActive reports whether the current question's countdown is running.
func (s *Session) TimerActive() bool {
	q, ok := s.Current()
	return ok && s.Timer.Active && s.Timer.QuestionID == q.ID
}

// TimedOut reports whether the current question's countdown reached zero
// without an answer. The caller is expected to submit question.NoAnswer.
func (s *Session) TimedOut() bool {
	q, ok := s.Current()
	return ok && !q.Answered() && s.Timer.Expired && s.Timer.QuestionID == q.ID
}

// Progress counts answered and scored questions.
type Progress struct {
	Answered int `json:"answered"`
	Scored   int `json:"scored"`
	Total    int `json:"total"`
}

// Progress returns answer and score counts over the whole sequence.
func (s *Session) Progress() Progress {
	p := Progress{Total: len(s.Questions)}
	for _, q := range s.Questions {
		if q.Answered() {
			p.Answered++
		}
		if q.Scored() {
			p.Scored++
		}
	}
	return p
}
