package interview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fakeyudi/screener/internal/aggregate"
	"github.com/fakeyudi/screener/internal/session"
)

// ErrInputClosed is returned by RunPlain when input ends before the session
// completes. Everything answered so far is saved.
var ErrInputClosed = errors.New("input closed before the interview finished")

// PlainOptions tunes RunPlain.
type PlainOptions struct {
	// TickInterval is the wall time of one countdown second. Zero means
	// time.Second.
	TickInterval time.Duration
}

// RunPlain drives the interview in line mode: each line read from in answers
// the current question. When evaluation fails the next line decides between
// another attempt and scoring the answer 0. It resumes a session from wherever
// it was saved and returns the final assessment.
func RunPlain(ctx context.Context, c *Conductor, in io.Reader, out io.Writer, opts PlainOptions) (*aggregate.Result, error) {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s := c.Session()
	var shown string // question whose prompt was last printed
	for {
		if s.Status == session.StatusCompleted {
			res, err := aggregate.Aggregate(s.Questions)
			if err != nil {
				return nil, err
			}
			return &res, nil
		}
		if s.AwaitingCompletion {
			res, err := c.Finish()
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(out, "\n%s\n", res.Summary)
			return &res, nil
		}

		if q, ok := c.Pending(); ok {
			fmt.Fprintln(out, "Evaluating...")
			outcome, err := c.Retry(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				fmt.Fprintf(out, "Evaluation failed (%v). Retry? [y/N] ", err)
				retry, err := askRetry(ctx, lines)
				if err != nil {
					return nil, err
				}
				if retry {
					continue
				}
				fmt.Fprintf(out, "Question %s scored 0.\n", q.ID)
				outcome, err = c.Abandon()
				if err != nil {
					return nil, err
				}
			} else {
				scored := c.Session().Questions[indexOf(s, q.ID)]
				fmt.Fprintf(out, "Score: %.1f/10. %s\n", *scored.Score, *scored.Feedback)
			}
			if outcome.Done() {
				fmt.Fprintf(out, "\n%s\n", outcome.Final.Summary)
				return outcome.Final, nil
			}
			continue
		}

		if s.TimedOut() {
			fmt.Fprintln(out, "Time's up.")
			if err := c.SubmitTimeout(""); err != nil {
				return nil, err
			}
			continue
		}

		if !s.TimerActive() {
			if err := c.Activate(); err != nil {
				return nil, err
			}
		}
		if q, _ := s.Current(); q.ID != shown {
			shown = q.ID
			fmt.Fprintf(out, "\nQuestion %d/%d [%s, %ds]\n%s\n> ", s.Cursor+1, len(s.Questions), q.Difficulty, s.Timer.Remaining, q.Prompt)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil, ErrInputClosed
			}
			if err := c.Submit(line, c.Elapsed()); err != nil {
				return nil, err
			}
		case <-ticker.C:
			rem, err := c.Tick()
			if err != nil {
				return nil, err
			}
			if rem == 10 {
				fmt.Fprint(out, "\n(10 seconds left)\n> ")
			}
		}
	}
}

// askRetry reads the answer to a retry prompt. Anything but y or yes
// declines.
func askRetry(ctx context.Context, lines <-chan string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return false, ErrInputClosed
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

func indexOf(s *session.Session, questionID string) int {
	for i, q := range s.Questions {
		if q.ID == questionID {
			return i
		}
	}
	return 0
}
