package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakeyudi/screener/internal/question"
)

// Retrying runs Next up to Attempts times, each under its own Timeout.
type Retrying struct {
	Next     Evaluator
	Attempts int           // values below 1 mean one attempt
	Timeout  time.Duration // zero means no per-attempt deadline

	// OnRetry, if set, is told about every failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// Evaluate implements Evaluator. The returned error wraps ErrEvaluationFailed
// and the last attempt's error.
func (r *Retrying) Evaluate(ctx context.Context, q question.Question, answer string, elapsed int) (Result, error) {
	attempts := max(r.Attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := r.once(ctx, q, answer, elapsed)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts && r.OnRetry != nil {
			r.OnRetry(attempt, err)
		}
	}
	if errors.Is(lastErr, ErrEvaluationFailed) {
		return Result{}, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
	}
	return Result{}, fmt.Errorf("%w after %d attempts: %w", ErrEvaluationFailed, attempts, lastErr)
}

func (r *Retrying) once(ctx context.Context, q question.Question, answer string, elapsed int) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	res, err := r.Next.Evaluate(ctx, q, answer, elapsed)
	if err != nil {
		return Result{}, err
	}
	if res.Score < 0 || res.Score > 10 {
		return Result{}, fmt.Errorf("%w: score %.1f out of range", ErrEvaluationFailed, res.Score)
	}
	return res, nil
}
