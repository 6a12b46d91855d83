// Package report turns a session into a reviewable interview report and
// reads reports back.
package report

import (
	"time"

	"github.com/fakeyudi/screener/internal/aggregate"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
)

// Report is the complete, renderable record of one interview.
type Report struct {
	Candidate   Candidate          `json:"candidate"`
	Status      session.Status     `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Duration    string             `json:"duration,omitempty"` // human-readable, e.g. "7m42s"
	FinalScore  *float64           `json:"final_score,omitempty"`
	Tier        string             `json:"tier,omitempty"`
	Means       map[string]float64 `json:"means,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	Questions   []Entry            `json:"questions"`
}

// Candidate identifies who was interviewed.
type Candidate struct {
	SessionID  string `json:"session_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ResumeFile string `json:"resume_file,omitempty"`
}

// Entry is one question with its outcome.
type Entry struct {
	Index      int                 `json:"index"` // 1-based
	Difficulty question.Difficulty `json:"difficulty"`
	Prompt     string              `json:"prompt"`
	TimeLimit  int                 `json:"time_limit"`
	TimeSpent  *int                `json:"time_spent,omitempty"`
	Answer     *string             `json:"answer,omitempty"`
	Score      *float64            `json:"score,omitempty"`
	Feedback   *string             `json:"feedback,omitempty"`
}

// FromSession builds the report of s. Unfinished sessions produce a partial
// report without a final score.
func FromSession(s *session.Session) *Report {
	r := &Report{
		Candidate: Candidate{
			SessionID:  s.ID,
			Name:       s.Name,
			Email:      s.Email,
			Phone:      s.Phone,
			ResumeFile: s.ResumeFileName,
		},
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.CompletedAt,
		FinalScore:  s.FinalScore,
		Summary:     s.FinalSummary,
		Questions:   make([]Entry, len(s.Questions)),
	}
	for i, q := range s.Questions {
		r.Questions[i] = Entry{
			Index:      i + 1,
			Difficulty: q.Difficulty,
			Prompt:     q.Prompt,
			TimeLimit:  q.TimeLimit,
			TimeSpent:  q.TimeSpent,
			Answer:     q.Answer,
			Score:      q.Score,
			Feedback:   q.Feedback,
		}
	}
	if s.CompletedAt != nil {
		r.Duration = s.CompletedAt.Sub(s.CreatedAt).Round(time.Second).String()
	}
	if s.FinalScore != nil {
		r.Tier = string(aggregate.TierFor(*s.FinalScore))
	}
	if res, err := aggregate.Aggregate(s.Questions); err == nil {
		r.Means = make(map[string]float64, len(res.Means))
		for d, m := range res.Means {
			r.Means[string(d)] = m
		}
	}
	return r
}
