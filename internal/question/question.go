// Package question holds the interview question model and the question bank
// that draws a question set for a new session.
package question

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty buckets questions. Sessions always present them in Order.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Order is the fixed easiest-first presentation order.
var Order = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts any casing of "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// NoAnswer is the answer the caller submits when a question's countdown
// reaches zero before the candidate answered. It is scored like any answer.
const NoAnswer = "No answer provided (time ran out)"

// Question is one prompt in a session. The answer fields stay nil until the
// session records them; each is written at most once.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"` // seconds

	Answer     *string    `json:"answer,omitempty"`
	TimeSpent  *int       `json:"time_spent,omitempty"` // seconds
	Score      *float64   `json:"score,omitempty"`      // 0-10
	Feedback   *string    `json:"feedback,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

// Answered reports whether an answer has been submitted.
func (q Question) Answered() bool { return q.Answer != nil }

// Scored reports whether the evaluator result has been applied.
func (q Question) Scored() bool { return q.Score != nil }
