// Package interview drives a session through its questions: activation,
// submission, evaluation, advancing and completion, persisting after every
// transition.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fakeyudi/screener/internal/aggregate"
	"github.com/fakeyudi/screener/internal/evaluate"
	"github.com/fakeyudi/screener/internal/eventlog"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
)

// Conductor is the single sequential actor for one session. Its methods must
// be called from one goroutine; only Evaluate may run concurrently with them.
type Conductor struct {
	sess  *session.Session
	store session.SessionStore
	eval  evaluate.Evaluator
	log   *eventlog.Logger
}

// Option configures a Conductor.
type Option func(*Conductor)

// WithLogger records transitions to l.
func WithLogger(l *eventlog.Logger) Option { return func(c *Conductor) { c.log = l } }

// New returns a Conductor for s.
func New(s *session.Session, store session.SessionStore, eval evaluate.Evaluator, opts ...Option) *Conductor {
	c := &Conductor{sess: s, store: store, eval: eval}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session returns the driven session. Callers must treat it as read-only.
func (c *Conductor) Session() *session.Session {
	return c.sess
}

// Outcome reports what happened after a score was applied.
type Outcome struct {
	Advance session.AdvanceResult
	// Final is set when the session completed.
	Final *aggregate.Result
}

// Done reports whether the session completed.
func (o Outcome) Done() bool { return o.Final != nil }

func (c *Conductor) save() error {
	if err := c.store.Save(c.sess); err != nil {
		return fmt.Errorf("saving session %s: %w", c.sess.ID, err)
	}
	return nil
}

func (c *Conductor) record(e eventlog.Event) {
	e.SessionID = c.sess.ID
	// The event log is best effort; a failed append never blocks the interview.
	_ = c.log.Append(e)
}

func (c *Conductor) questionEvent(name string, q *question.Question) eventlog.Event {
	return eventlog.Event{
		Event:      name,
		QuestionID: q.ID,
		Index:      c.sess.Cursor + 1,
		Difficulty: string(q.Difficulty),
	}
}

// Start moves a collected session into the interview and saves it.
func (c *Conductor) Start() error {
	if err := c.sess.Start(); err != nil {
		return err
	}
	c.record(eventlog.Event{Event: eventlog.EventSessionStarted})
	return c.save()
}

// Activate starts the current question's countdown and saves the session.
// Re-activating a running question only saves.
func (c *Conductor) Activate() error {
	wasActive := c.sess.TimerActive()
	if err := c.sess.ActivateCurrentQuestion(); err != nil {
		return err
	}
	if !wasActive {
		q, _ := c.sess.Current()
		c.record(c.questionEvent(eventlog.EventQuestionActivated, q))
	}
	return c.save()
}

// tickSaveEvery is how many seconds of countdown may be lost on a crash.
const tickSaveEvery = 5

// Tick advances the countdown by one second. The countdown is saved every
// few seconds and when it expires.
func (c *Conductor) Tick() (int, error) {
	wasActive := c.sess.TimerActive()
	rem, err := c.sess.Tick()
	if err != nil || !wasActive {
		return rem, err
	}
	if rem == 0 || rem%tickSaveEvery == 0 {
		return rem, c.save()
	}
	return rem, nil
}

// Elapsed returns the seconds used so far on the current question.
func (c *Conductor) Elapsed() int {
	q, ok := c.sess.Current()
	if !ok || c.sess.Timer.QuestionID != q.ID {
		return 0
	}
	return q.TimeLimit - c.sess.Timer.Remaining
}

// Submit records the answer to the current question. A blank answer is
// stored as question.NoAnswer.
func (c *Conductor) Submit(answer string, elapsed int) error {
	if strings.TrimSpace(answer) == "" {
		answer = question.NoAnswer
	} else {
		answer = strings.TrimSpace(answer)
	}
	if err := c.sess.Submit(answer, elapsed); err != nil {
		return err
	}
	q, _ := c.sess.Current()
	e := c.questionEvent(eventlog.EventAnswerSubmitted, q)
	e.Elapsed = elapsed
	c.record(e)
	return c.save()
}

// SubmitTimeout submits whatever partial answer the candidate typed, or
// question.NoAnswer, after the countdown expired.
func (c *Conductor) SubmitTimeout(partial string) error {
	q, ok := c.sess.Current()
	if !ok {
		return c.Submit(partial, 0)
	}
	return c.Submit(partial, q.TimeLimit)
}

// Pending returns a copy of the current question when it is answered and
// still waiting for a score.
func (c *Conductor) Pending() (question.Question, bool) {
	q, ok := c.sess.Current()
	if !ok || !q.Answered() || q.Scored() {
		return question.Question{}, false
	}
	return *q, true
}

// Evaluate scores q, a copy obtained from Pending. It does not touch the
// session, so it may run on another goroutine.
func (c *Conductor) Evaluate(ctx context.Context, q question.Question) (evaluate.Result, error) {
	if q.Answer == nil || q.TimeSpent == nil {
		return evaluate.Result{}, fmt.Errorf("%w: question %s has no answer", evaluate.ErrEvaluationFailed, q.ID)
	}
	return c.eval.Evaluate(ctx, q, *q.Answer, *q.TimeSpent)
}

// Failed records an evaluation failure for questionID. The session is left
// as it is; the caller retries or calls Abandon.
func (c *Conductor) Failed(questionID string, err error) {
	e := eventlog.Event{Event: eventlog.EventEvaluationFailed, QuestionID: questionID, Index: c.sess.Cursor + 1}
	if err != nil {
		e.Error = err.Error()
	}
	c.record(e)
}

// Apply records the evaluator result for questionID, advances, and completes
// the session after the last question. A result for any question other than
// the current one fails with session.ErrInvalidState.
func (c *Conductor) Apply(questionID string, res evaluate.Result) (Outcome, error) {
	if err := c.sess.ApplyScore(questionID, res.Score, res.Feedback); err != nil {
		return Outcome{}, err
	}
	q, _ := c.sess.Current()
	e := c.questionEvent(eventlog.EventScoreApplied, q)
	e.Score = q.Score
	c.record(e)
	if err := c.save(); err != nil {
		return Outcome{}, err
	}
	adv, err := c.sess.Advance()
	if err != nil {
		return Outcome{}, err
	}
	return c.afterAdvance(adv)
}

// Abandon gives up on evaluating the current answer, scoring it 0, and
// advances.
func (c *Conductor) Abandon() (Outcome, error) {
	var e eventlog.Event
	if q, ok := c.sess.Current(); ok {
		e = c.questionEvent(eventlog.EventQuestionAbandoned, q)
	}
	adv, err := c.sess.ForceAdvance()
	if err != nil {
		return Outcome{}, err
	}
	c.record(e)
	return c.afterAdvance(adv)
}

func (c *Conductor) afterAdvance(adv session.AdvanceResult) (Outcome, error) {
	if adv == session.HasMoreQuestions {
		return Outcome{Advance: adv}, c.save()
	}
	res, err := c.Finish()
	if err != nil {
		return Outcome{Advance: adv}, err
	}
	return Outcome{Advance: adv, Final: &res}, nil
}

// Finish aggregates the scores and completes a session that is ready to
// complete. It also recovers a session saved between the last Advance and
// Complete.
func (c *Conductor) Finish() (aggregate.Result, error) {
	res, err := aggregate.Aggregate(c.sess.Questions)
	if err != nil {
		// Keep the ready-to-complete state on disk so a later run can finish.
		if saveErr := c.save(); saveErr != nil {
			return aggregate.Result{}, errors.Join(err, saveErr)
		}
		return aggregate.Result{}, err
	}
	if err := c.sess.Complete(res.FinalScore, res.Summary); err != nil {
		return aggregate.Result{}, err
	}
	score := res.FinalScore
	c.record(eventlog.Event{Event: eventlog.EventSessionCompleted, Score: &score, Tier: string(res.Tier)})
	return res, c.save()
}

// Answer runs one full question cycle synchronously: submit, evaluate, apply.
// On evaluation failure the answer stays submitted and the error wraps
// evaluate.ErrEvaluationFailed; call Retry or Abandon next.
func (c *Conductor) Answer(ctx context.Context, answer string, elapsed int) (Outcome, error) {
	if err := c.Submit(answer, elapsed); err != nil {
		return Outcome{}, err
	}
	return c.Retry(ctx)
}

// Retry evaluates the pending answer again and applies the result.
func (c *Conductor) Retry(ctx context.Context) (Outcome, error) {
	q, ok := c.Pending()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: no answer waiting for evaluation", session.ErrInvalidState)
	}
	res, err := c.Evaluate(ctx, q)
	if err != nil {
		c.Failed(q.ID, err)
		return Outcome{}, err
	}
	return c.Apply(q.ID, res)
}
