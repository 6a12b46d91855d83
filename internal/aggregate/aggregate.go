// Package aggregate combines per-question scores into a final assessment.
package aggregate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fakeyudi/screener/internal/question"
)

// ErrIncompleteScoring is returned when any question lacks a score.
var ErrIncompleteScoring = errors.New("incomplete scoring")

// Tier labels a final score band.
type Tier string

const (
	Outstanding       Tier = "Outstanding"
	Good              Tier = "Good"
	Average           Tier = "Average"
	BelowExpectations Tier = "Below expectations"
)

// TierFor maps a final score to its band.
func TierFor(score float64) Tier {
	switch {
	case score >= 8:
		return Outstanding
	case score >= 6:
		return Good
	case score >= 4:
		return Average
	}
	return BelowExpectations
}

// Result is the aggregated assessment of a session.
type Result struct {
	FinalScore float64                         `json:"final_score"`
	Tier       Tier                            `json:"tier"`
	Means      map[question.Difficulty]float64 `json:"means"`
	Summary    string                          `json:"summary"`
}

// Aggregate averages the scores of qs. Every question must be scored. The
// result does not depend on the order of qs.
func Aggregate(qs []question.Question) (Result, error) {
	if len(qs) == 0 {
		return Result{}, fmt.Errorf("%w: no questions", ErrIncompleteScoring)
	}

	buckets := map[question.Difficulty][]float64{}
	all := make([]float64, 0, len(qs))
	for i, q := range qs {
		if !q.Scored() {
			return Result{}, fmt.Errorf("%w: question %d (%s) has no score", ErrIncompleteScoring, i+1, q.ID)
		}
		all = append(all, *q.Score)
		buckets[q.Difficulty] = append(buckets[q.Difficulty], *q.Score)
	}

	r := Result{
		FinalScore: Round1(mean(all)),
		Means:      make(map[question.Difficulty]float64, len(question.Order)),
	}
	r.Tier = TierFor(r.FinalScore)
	for _, d := range question.Order {
		r.Means[d] = mean(buckets[d])
	}
	r.Summary = summarize(r)
	return r, nil
}

// mean sums in sorted order so the float result cannot depend on input order.
// It returns 0 for an empty slice.
func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sort.Float64s(vs)
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// roundEps covers float error in means of one-decimal scores: 2.35 may be
// stored as 2.3499999999999996.
const roundEps = 1e-9

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10+math.Copysign(roundEps, v)) / 10
}

func summarize(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall Score: %.1f/10\n", r.FinalScore)
	fmt.Fprintf(&b, "Tier: %s\n", r.Tier)
	b.WriteString("Breakdown:")
	for _, d := range question.Order {
		fmt.Fprintf(&b, "\n- %s: %.1f/10", d, r.Means[d])
	}
	return b.String()
}
