package session_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	now := epoch
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func questions(limits ...int) []question.Question {
	qs := make([]question.Question, len(limits))
	for i, l := range limits {
		d := question.Order[i*len(question.Order)/len(limits)]
		qs[i] = question.Question{ID: fmt.Sprintf("q%d", i), Prompt: "prompt", Difficulty: d, TimeLimit: l}
	}
	return qs
}

// tb is the part of testing.TB that rapid.T also provides.
type tb interface {
	Helper()
	Fatalf(format string, args ...any)
}

// started returns an InProgress session over qs.
func started(t tb, qs []question.Question) *session.Session {
	t.Helper()
	s := session.New("s1")
	s.CreatedAt = epoch
	s.Clock = fixedClock()
	if err := s.SetContact("Ada Lovelace", "ada@example.com", "555-123-4567"); err != nil {
		t.Fatalf("SetContact: %v", err)
	}
	if err := s.AttachQuestions(qs); err != nil {
		t.Fatalf("AttachQuestions: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

// answerAndScore runs one full question cycle at the cursor.
func answerAndScore(t tb, s *session.Session, score float64) session.AdvanceResult {
	t.Helper()
	q, _ := s.Current()
	if err := s.ActivateCurrentQuestion(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := s.Submit("answer", 3); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.ApplyScore(q.ID, score, "ok"); err != nil {
		t.Fatalf("ApplyScore: %v", err)
	}
	res, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	return res
}

func TestStartRequiresContactAndQuestions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *session.Session)
	}{
		{"no questions", func(s *session.Session) {
			_ = s.SetContact("Ada", "ada@example.com", "555")
		}},
		{"missing phone", func(s *session.Session) {
			_ = s.SetContact("Ada", "ada@example.com", "")
			_ = s.AttachQuestions(questions(20))
		}},
		{"already started", func(s *session.Session) {
			_ = s.SetContact("Ada", "ada@example.com", "555")
			_ = s.AttachQuestions(questions(20))
			_ = s.Start()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New("s")
			tt.setup(s)
			err := s.Start()
			if !errors.Is(err, session.ErrInvalidTransition) {
				t.Fatalf("Start err = %v, want ErrInvalidTransition", err)
			}
			var se *session.StateError
			if !errors.As(err, &se) || se.Op != "start" {
				t.Errorf("want *StateError with op start, got %#v", err)
			}
		})
	}
}

func TestMissingContact(t *testing.T) {
	s := session.New("s")
	_ = s.SetContact("", "ada@example.com", "  ")
	got := s.MissingContact()
	if len(got) != 2 || got[0] != "name" || got[1] != "phone" {
		t.Errorf("MissingContact = %v, want [name phone]", got)
	}
}

func TestAttachQuestionsOnce(t *testing.T) {
	s := session.New("s")
	if err := s.AttachQuestions(nil); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("empty attach err = %v, want ErrInvalidState", err)
	}
	if err := s.AttachQuestions(questions(20, 60)); err != nil {
		t.Fatalf("AttachQuestions: %v", err)
	}
	if err := s.AttachQuestions(questions(20)); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("second attach err = %v, want ErrInvalidState", err)
	}
	if len(s.Questions) != 2 {
		t.Errorf("questions = %d, want 2", len(s.Questions))
	}
}

// Feature: screener, Property 2: Second submit is rejected and changes nothing
func TestSubmitTwiceAlreadyAnswered(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		first := rapid.String().Draw(rt, "first")
		second := rapid.String().Draw(rt, "second")
		elapsed := rapid.IntRange(0, 120).Draw(rt, "elapsed")

		s := started(rt, questions(120))
		if err := s.ActivateCurrentQuestion(); err != nil {
			rt.Fatalf("Activate: %v", err)
		}
		if err := s.Submit(first, elapsed); err != nil {
			rt.Fatalf("Submit: %v", err)
		}
		q, _ := s.Current()
		at := *q.AnsweredAt

		err := s.Submit(second, elapsed+1)
		if !errors.Is(err, session.ErrAlreadyAnswered) {
			rt.Fatalf("second Submit err = %v, want ErrAlreadyAnswered", err)
		}
		if *q.Answer != first || *q.TimeSpent != elapsed || !q.AnsweredAt.Equal(at) {
			rt.Fatalf("first answer changed: %q %d %v", *q.Answer, *q.TimeSpent, *q.AnsweredAt)
		}
	})
}

func TestSubmitRequiresActivation(t *testing.T) {
	s := started(t, questions(20))
	if err := s.Submit("x", 1); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("Submit before activate err = %v, want ErrInvalidState", err)
	}
}

// Feature: screener, Property 3: Exactly one ApplyScore succeeds after submit
func TestApplyScoreOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.Float64Range(0, 10).Draw(rt, "score")
		s := started(rt, questions(20, 60))
		q, _ := s.Current()

		if err := s.ApplyScore(q.ID, score, "early"); !errors.Is(err, session.ErrInvalidState) {
			rt.Fatalf("ApplyScore before submit err = %v, want ErrInvalidState", err)
		}
		_ = s.ActivateCurrentQuestion()
		if err := s.Submit("answer", 4); err != nil {
			rt.Fatalf("Submit: %v", err)
		}
		if err := s.ApplyScore(q.ID, score, "good"); err != nil {
			rt.Fatalf("ApplyScore: %v", err)
		}
		if err := s.ApplyScore(q.ID, 10-score, "again"); !errors.Is(err, session.ErrInvalidState) {
			rt.Fatalf("second ApplyScore err = %v, want ErrInvalidState", err)
		}
		if *q.Score != score || *q.Feedback != "good" {
			rt.Fatalf("score/feedback = %v/%q, want %v/good", *q.Score, *q.Feedback, score)
		}
	})
}

func TestApplyScoreRejectsOutOfRange(t *testing.T) {
	s := started(t, questions(20))
	q, _ := s.Current()
	_ = s.ActivateCurrentQuestion()
	_ = s.Submit("a", 1)
	for _, v := range []float64{-0.1, 10.01} {
		if err := s.ApplyScore(q.ID, v, "x"); !errors.Is(err, session.ErrInvalidState) {
			t.Errorf("ApplyScore(%v) err = %v, want ErrInvalidState", v, err)
		}
	}
	if q.Score != nil || q.Feedback != nil {
		t.Error("rejected score left partial fields set")
	}
}

// Feature: screener, Property 4: Advance only after scoring, one step at a time
func TestAdvanceAfterScore(t *testing.T) {
	s := started(t, questions(20, 60, 120))
	q, _ := s.Current()
	_ = s.ActivateCurrentQuestion()
	_ = s.Submit("a", 2)

	if _, err := s.Advance(); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("Advance before score err = %v, want ErrInvalidState", err)
	}
	if s.Cursor != 0 {
		t.Fatalf("cursor moved to %d", s.Cursor)
	}
	_ = s.ApplyScore(q.ID, 7, "fine")
	res, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res != session.HasMoreQuestions || s.Cursor != 1 || s.Status != session.StatusInProgress {
		t.Errorf("got %v cursor %d status %s", res, s.Cursor, s.Status)
	}
	if s.TimerActive() {
		t.Error("next question timer started without activation")
	}
}

func TestCompleteRejectsOutOfRange(t *testing.T) {
	s := started(t, questions(20))
	if res := answerAndScore(t, s, 6); res != session.ReadyToComplete {
		t.Fatalf("advance = %v, want ReadyToComplete", res)
	}
	for _, v := range []float64{-0.1, 10.01, math.NaN(), math.Inf(1)} {
		if err := s.Complete(v, "bad"); !errors.Is(err, session.ErrInvalidState) {
			t.Errorf("Complete(%v) err = %v, want ErrInvalidState", v, err)
		}
	}
	if s.Status != session.StatusInProgress || s.FinalScore != nil || s.CompletedAt != nil {
		t.Fatalf("rejected Complete changed the session: %s %v", s.Status, s.FinalScore)
	}
	if err := s.Complete(10, "top"); err != nil {
		t.Fatalf("Complete(10): %v", err)
	}
}

// Feature: screener, Property 5: Final advance then complete
func TestFinalAdvanceAndComplete(t *testing.T) {
	s := started(t, questions(20, 60))
	if res := answerAndScore(t, s, 6); res != session.HasMoreQuestions {
		t.Fatalf("first advance = %v", res)
	}
	if err := s.Complete(5, "early"); !errors.Is(err, session.ErrInvalidTransition) {
		t.Fatalf("Complete before ReadyToComplete err = %v", err)
	}
	if res := answerAndScore(t, s, 4); res != session.ReadyToComplete {
		t.Fatalf("last advance = %v, want ReadyToComplete", res)
	}
	if s.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", s.Cursor)
	}
	if err := s.Complete(5, "summary"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.Status != session.StatusCompleted || *s.FinalScore != 5 || s.FinalSummary != "summary" {
		t.Errorf("completed session = %s %v %q", s.Status, *s.FinalScore, s.FinalSummary)
	}
	if s.CompletedAt == nil || s.CompletedAt.Before(s.CreatedAt) {
		t.Errorf("CompletedAt %v before CreatedAt %v", s.CompletedAt, s.CreatedAt)
	}
	if err := s.Complete(1, "again"); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("second Complete err = %v, want ErrInvalidTransition", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("Current available after completion")
	}
}

// Feature: screener, Property 8: Countdown stops at zero
func TestTimerStopsAtZero(t *testing.T) {
	s := started(t, questions(20))
	if err := s.ActivateCurrentQuestion(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	var rem int
	for i := 0; i < 20; i++ {
		rem, _ = s.Tick()
	}
	if rem != 0 || s.TimerActive() {
		t.Fatalf("after 20 ticks remaining=%d active=%v", rem, s.TimerActive())
	}
	rem, err := s.Tick()
	if err != nil || rem != 0 || s.Timer.Remaining != 0 {
		t.Fatalf("21st tick = %d, %v (stored %d)", rem, err, s.Timer.Remaining)
	}
	q, _ := s.Current()
	if q.Answered() {
		t.Fatal("timeout submitted an answer")
	}
	if !s.TimedOut() {
		t.Error("TimedOut = false after expiry")
	}
	if err := s.ActivateCurrentQuestion(); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("re-activating expired question err = %v", err)
	}
	if err := s.Submit(question.NoAnswer, 0); err != nil {
		t.Errorf("sentinel submit: %v", err)
	}
}

func TestTimerProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 300).Draw(rt, "limit")
		ticks := rapid.IntRange(0, 400).Draw(rt, "ticks")
		s := started(rt, questions(limit))
		_ = s.ActivateCurrentQuestion()
		_ = s.ActivateCurrentQuestion() // no-op while running
		rem := limit
		for i := 0; i < ticks; i++ {
			rem, _ = s.Tick()
			if rem < 0 {
				rt.Fatalf("remaining went negative: %d", rem)
			}
		}
		want := max(limit-ticks, 0)
		if rem != want {
			rt.Fatalf("remaining = %d, want %d", rem, want)
		}
		if s.TimerActive() != (want > 0) {
			rt.Fatalf("active = %v with %d remaining", s.TimerActive(), want)
		}
	})
}

// Feature: screener, Property 9: Late result after forced advance is rejected
func TestLateScoreAfterForceAdvance(t *testing.T) {
	s := started(t, questions(20, 60))
	q0, _ := s.Current()
	_ = s.ActivateCurrentQuestion()
	_ = s.Submit("slow", 5)

	res, err := s.ForceAdvance()
	if err != nil || res != session.HasMoreQuestions {
		t.Fatalf("ForceAdvance = %v, %v", res, err)
	}
	if *s.Questions[0].Score != 0 || *s.Questions[0].Feedback != session.AbandonedFeedback {
		t.Errorf("abandoned question = %v %q", *s.Questions[0].Score, *s.Questions[0].Feedback)
	}
	if err := s.ApplyScore(q0.ID, 9, "late"); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("late ApplyScore err = %v, want ErrInvalidState", err)
	}
	if *s.Questions[0].Score != 0 {
		t.Error("late result mutated the abandoned question")
	}
	if s.Questions[1].Scored() {
		t.Error("late result landed on the current question")
	}

	// Abandoning the final question rejects the late result too.
	q1, _ := s.Current()
	_ = s.ActivateCurrentQuestion()
	_ = s.Submit("slow", 5)
	if res, _ := s.ForceAdvance(); res != session.ReadyToComplete {
		t.Fatalf("final ForceAdvance = %v", res)
	}
	if err := s.ApplyScore(q1.ID, 9, "late"); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("late ApplyScore on last err = %v", err)
	}
}

func TestForceAdvanceNeedsAnswer(t *testing.T) {
	s := started(t, questions(20))
	if _, err := s.ForceAdvance(); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("ForceAdvance unanswered err = %v, want ErrInvalidState", err)
	}
}

func TestOperationsBeforeStart(t *testing.T) {
	s := session.New("s")
	if err := s.ActivateCurrentQuestion(); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("Activate err = %v", err)
	}
	if err := s.Submit("a", 1); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("Submit err = %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("Advance err = %v", err)
	}
	if err := s.Complete(1, ""); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("Complete err = %v", err)
	}
}

func TestSetContactAfterStart(t *testing.T) {
	s := started(t, questions(20))
	if err := s.SetContact("Other", "", ""); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("SetContact err = %v", err)
	}
	if s.Name != "Ada Lovelace" {
		t.Errorf("name changed to %q", s.Name)
	}
}

func TestProgress(t *testing.T) {
	s := started(t, questions(20, 60, 120))
	answerAndScore(t, s, 5)
	_ = s.ActivateCurrentQuestion()
	_ = s.Submit("a", 1)
	p := s.Progress()
	if p.Answered != 2 || p.Scored != 1 || p.Total != 3 {
		t.Errorf("Progress = %+v", p)
	}
}
