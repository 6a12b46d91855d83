package evaluate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fakeyudi/screener/internal/question"
)

// DefaultKeywords are the technical terms that earn the keyword bonus.
var DefaultKeywords = []string{"react", "component", "javascript", "node", "api", "function", "state", "hook"}

// Heuristic scores answers by length, keyword use and time spent, plus up to
// one point of random jitter either way.
type Heuristic struct {
	mu       sync.Mutex
	rng      *rand.Rand
	keywords *regexp.Regexp
	latency  time.Duration
}

// Option configures a Heuristic.
type Option func(*Heuristic)

// WithRand sets the jitter source. Tests pass a seeded one.
func WithRand(r *rand.Rand) Option { return func(h *Heuristic) { h.rng = r } }

// WithKeywords replaces DefaultKeywords. Matching is case-insensitive.
func WithKeywords(words ...string) Option {
	return func(h *Heuristic) { h.keywords = keywordPattern(words) }
}

// WithLatency makes every evaluation wait d before answering, honouring ctx.
func WithLatency(d time.Duration) Option { return func(h *Heuristic) { h.latency = d } }

// NewHeuristic returns a Heuristic with no latency and DefaultKeywords.
func NewHeuristic(opts ...Option) *Heuristic {
	h := &Heuristic{
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		keywords: keywordPattern(DefaultKeywords),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func keywordPattern(words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

// Evaluate implements Evaluator.
func (h *Heuristic) Evaluate(ctx context.Context, q question.Question, answer string, elapsed int) (Result, error) {
	if h.latency > 0 {
		t := time.NewTimer(h.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: %w", ErrEvaluationFailed, ctx.Err())
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrEvaluationFailed, err)
	}

	length := utf8.RuneCountInString(strings.TrimSpace(answer))
	hasKeywords := h.keywords != nil && h.keywords.MatchString(answer)

	score := 5.0
	switch {
	case length > 200:
		score += 2
	case length > 100:
		score += 1
	case length < 20:
		score -= 2
	}
	if hasKeywords {
		score += 1
	}
	// Bonus for using most of a nominal 60 second window.
	if float64(elapsed)/60 > 0.7 {
		score += 0.5
	}
	score += (h.jitter() - 0.5) * 2
	score = math.Round(math.Max(0, math.Min(10, score))*10) / 10

	return Result{Score: score, Feedback: Feedback(score, length, hasKeywords)}, nil
}

func (h *Heuristic) jitter() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Float64()
}

// Feedback builds the reviewer note for a score. length is the trimmed
// answer length in characters.
func Feedback(score float64, length int, hasKeywords bool) string {
	var parts []string
	switch {
	case score >= 8:
		parts = append(parts, "Excellent answer!")
	case score >= 6:
		parts = append(parts, "Good response with solid understanding.")
	case score >= 4:
		parts = append(parts, "Fair answer, but could be improved.")
	default:
		parts = append(parts, "Needs improvement.")
	}
	switch {
	case length < 20:
		parts = append(parts, "Consider providing more detailed explanations.")
	case length > 300:
		parts = append(parts, "Try to be more concise while maintaining depth.")
	}
	if !hasKeywords {
		parts = append(parts, "Include more technical terms relevant to the question.")
	}
	return strings.Join(parts, " ")
}
