package question

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// ErrConfiguration is the sentinel wrapped by every ConfigError.
var ErrConfiguration = errors.New("invalid question configuration")

// ConfigError describes a malformed generation request.
type ConfigError struct {
	Difficulty Difficulty
	Reason     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("question plan: %s: %s", e.Difficulty, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// Bucket is how many questions of one difficulty to draw and the time limit
// each of them gets.
type Bucket struct {
	Count     int `json:"count" yaml:"count"`
	TimeLimit int `json:"time_limit" yaml:"time_limit"` // seconds
}

// Plan maps each difficulty to its bucket. Missing difficulties draw nothing.
type Plan map[Difficulty]Bucket

// DefaultPlan returns the standard six-question screening: two easy at 20s,
// two medium at 60s and two hard at 120s.
func DefaultPlan() Plan {
	return Plan{
		Easy:   {Count: 2, TimeLimit: 20},
		Medium: {Count: 2, TimeLimit: 60},
		Hard:   {Count: 2, TimeLimit: 120},
	}
}

// Total returns the number of questions the plan draws.
func (p Plan) Total() int {
	n := 0
	for _, d := range Order {
		n += p[d].Count
	}
	return n
}

// Catalog holds the candidate prompts per difficulty.
type Catalog map[Difficulty][]string

// Bank draws question sets from a catalog. A Bank is not safe for concurrent
// use because it owns its random source.
type Bank struct {
	catalog Catalog
	rng     *rand.Rand
	newID   func() string
}

// Option configures a Bank.
type Option func(*Bank)

// WithRand sets the random source used for selection. Tests pass a seeded one.
func WithRand(r *rand.Rand) Option { return func(b *Bank) { b.rng = r } }

// WithIDFunc overrides question id generation.
func WithIDFunc(fn func() string) Option { return func(b *Bank) { b.newID = fn } }

// NewBank returns a Bank over c.
func NewBank(c Catalog, opts ...Option) *Bank {
	b := &Bank{
		catalog: c,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:   func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Draw selects prompts for every bucket of plan, uniformly at random with
// replacement, and returns them Easy first, then Medium, then Hard.
// The whole plan is validated before anything is drawn.
func (b *Bank) Draw(plan Plan) ([]Question, error) {
	for d := range plan {
		if _, err := ParseDifficulty(string(d)); err != nil {
			return nil, &ConfigError{Difficulty: d, Reason: "unknown difficulty"}
		}
	}
	for _, d := range Order {
		bucket := plan[d]
		switch {
		case bucket.Count < 0:
			return nil, &ConfigError{Difficulty: d, Reason: "negative count"}
		case bucket.Count == 0:
			continue
		case bucket.TimeLimit <= 0:
			return nil, &ConfigError{Difficulty: d, Reason: "time limit must be positive"}
		case len(b.catalog[d]) == 0:
			return nil, &ConfigError{Difficulty: d, Reason: "catalog is empty"}
		}
	}

	out := make([]Question, 0, plan.Total())
	for _, d := range Order {
		bucket := plan[d]
		prompts := b.catalog[d]
		for i := 0; i < bucket.Count; i++ {
			out = append(out, Question{
				ID:         b.newID(),
				Prompt:     prompts[b.rng.IntN(len(prompts))],
				Difficulty: d,
				TimeLimit:  bucket.TimeLimit,
			})
		}
	}
	return out, nil
}
