package aggregate

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/screener/internal/question"
)

func scored(d question.Difficulty, score float64) question.Question {
	fb := "ok"
	return question.Question{ID: string(d), Difficulty: d, TimeLimit: 20, Score: &score, Feedback: &fb}
}

func TestAggregateScenario(t *testing.T) {
	qs := []question.Question{
		scored(question.Easy, 9), scored(question.Easy, 7),
		scored(question.Medium, 6), scored(question.Medium, 5),
		scored(question.Hard, 3), scored(question.Hard, 4),
	}
	r, err := Aggregate(qs)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if r.FinalScore != 5.7 || r.Tier != Average {
		t.Errorf("final = %v %s, want 5.7 Average", r.FinalScore, r.Tier)
	}
	want := map[question.Difficulty]float64{question.Easy: 8, question.Medium: 5.5, question.Hard: 3.5}
	for d, m := range want {
		if r.Means[d] != m {
			t.Errorf("%s mean = %v, want %v", d, r.Means[d], m)
		}
	}
	wantSummary := "Overall Score: 5.7/10\nTier: Average\nBreakdown:\n- Easy: 8.0/10\n- Medium: 5.5/10\n- Hard: 3.5/10"
	if r.Summary != wantSummary {
		t.Errorf("summary =\n%s\nwant\n%s", r.Summary, wantSummary)
	}
}

func TestAggregateIncomplete(t *testing.T) {
	qs := []question.Question{scored(question.Easy, 5), {ID: "x", Difficulty: question.Hard}}
	if _, err := Aggregate(qs); !errors.Is(err, ErrIncompleteScoring) {
		t.Errorf("err = %v, want ErrIncompleteScoring", err)
	}
	if _, err := Aggregate(nil); !errors.Is(err, ErrIncompleteScoring) {
		t.Errorf("empty err = %v, want ErrIncompleteScoring", err)
	}
}

func TestAggregateEmptyBucket(t *testing.T) {
	r, err := Aggregate([]question.Question{scored(question.Hard, 8.25)})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if r.Means[question.Easy] != 0 || r.Means[question.Medium] != 0 {
		t.Errorf("empty buckets = %v", r.Means)
	}
	if r.FinalScore != 8.3 || r.Tier != Outstanding {
		t.Errorf("final = %v %s", r.FinalScore, r.Tier)
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{10, Outstanding}, {8, Outstanding}, {7.9, Good}, {6, Good},
		{5.9, Average}, {4, Average}, {3.9, BelowExpectations}, {0, BelowExpectations},
	}
	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestRound1HalfAwayFromZero(t *testing.T) {
	tests := map[float64]float64{
		0.25: 0.3, 5.666: 5.7, 4.04: 4.0, 10: 10,
		2.35: 2.4, 2.95: 3.0, 4.15: 4.2, -2.35: -2.4,
	}
	for in, want := range tests {
		if got := Round1(in); got != want {
			t.Errorf("Round1(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestAggregateRoundsExactHalvesUp(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{0.1, 4.6, 2.4},
		{0.1, 5.8, 3.0},
		{3.9, 4.4, 4.2},
		{0.0, 0.1, 0.1},
	}
	for _, tt := range tests {
		r, err := Aggregate([]question.Question{scored(question.Easy, tt.a), scored(question.Hard, tt.b)})
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		if r.FinalScore != tt.want {
			t.Errorf("Aggregate(%v, %v) = %v, want %v", tt.a, tt.b, r.FinalScore, tt.want)
		}
	}
}

// Every pair of one-decimal scores rounds like the exact decimal mean.
func TestAggregateMeanOfTenths(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 100).Draw(t, "a")
		b := rapid.IntRange(0, 100).Draw(t, "b")
		r, err := Aggregate([]question.Question{
			scored(question.Easy, float64(a)/10),
			scored(question.Medium, float64(b)/10),
		})
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		// mean in hundredths is 5(a+b); round half up to tenths
		want := float64((5*(a+b)+5)/10) / 10
		if r.FinalScore != want {
			t.Fatalf("Aggregate(%d, %d tenths) = %v, want %v", a, b, r.FinalScore, want)
		}
	})
}

// Feature: screener, Property 6: Aggregation ignores input order
func TestAggregateOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		qs := make([]question.Question, n)
		for i := range qs {
			d := rapid.SampledFrom(question.Order).Draw(t, "difficulty")
			s := float64(rapid.IntRange(0, 100).Draw(t, "score")) / 10
			qs[i] = scored(d, s)
		}
		perm := rapid.Permutation(qs).Draw(t, "perm")

		a, err := Aggregate(qs)
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		b, err := Aggregate(perm)
		if err != nil {
			t.Fatalf("Aggregate permuted: %v", err)
		}
		if a.FinalScore != b.FinalScore || a.Tier != b.Tier || a.Summary != b.Summary {
			t.Fatalf("order changed result:\n%s\nvs\n%s", a.Summary, b.Summary)
		}
		again, _ := Aggregate(qs)
		if again.Summary != a.Summary {
			t.Fatal("Aggregate not idempotent")
		}
	})
}
