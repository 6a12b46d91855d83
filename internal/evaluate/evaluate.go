// Package evaluate scores a single free-text answer.
package evaluate

import (
	"context"
	"errors"

	"github.com/fakeyudi/screener/internal/question"
)

// ErrEvaluationFailed wraps every evaluator failure. It is recoverable: the
// caller may retry or abandon the question.
var ErrEvaluationFailed = errors.New("evaluation failed")

// Result is an evaluator's verdict on one answer.
type Result struct {
	Score    float64 `json:"score"` // 0-10, one decimal
	Feedback string  `json:"feedback"`
}

// Evaluator scores an answer given the question and the seconds spent on it.
// Implementations must be safe for concurrent use.
type Evaluator interface {
	Evaluate(ctx context.Context, q question.Question, answer string, elapsed int) (Result, error)
}

// Func adapts a function to the Evaluator interface.
type Func func(ctx context.Context, q question.Question, answer string, elapsed int) (Result, error)

func (f Func) Evaluate(ctx context.Context, q question.Question, answer string, elapsed int) (Result, error) {
	return f(ctx, q, answer, elapsed)
}
