package session

import (
	"math"
	"strings"

	"github.com/fakeyudi/screener/internal/question"
)

// AbandonedFeedback is the feedback ForceAdvance records in place of an
// evaluator result.
const AbandonedFeedback = "Evaluation abandoned."

// AdvanceResult tells the caller what Advance did.
type AdvanceResult int

const (
	// HasMoreQuestions means the cursor moved to the next question.
	HasMoreQuestions AdvanceResult = iota + 1
	// ReadyToComplete means the last question is done and the caller should
	// aggregate and call Complete.
	ReadyToComplete
)

func (r AdvanceResult) String() string {
	switch r {
	case HasMoreQuestions:
		return "has_more_questions"
	case ReadyToComplete:
		return "ready_to_complete"
	}
	return "unknown"
}

// SetContact fills the provided contact fields. Empty arguments leave the
// existing value in place.
func (s *Session) SetContact(name, email, phone string) error {
	if s.Status != StatusCollecting {
		return s.fail("set contact", ErrInvalidTransition, "contact is fixed once the interview starts")
	}
	if v := strings.TrimSpace(name); v != "" {
		s.Name = v
	}
	if v := strings.TrimSpace(email); v != "" {
		s.Email = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		s.Phone = v
	}
	return nil
}

// AttachQuestions replaces the empty question sequence with qs. It can
// succeed only once per session.
func (s *Session) AttachQuestions(qs []question.Question) error {
	if s.Status != StatusCollecting {
		return s.fail("attach questions", ErrInvalidTransition, "")
	}
	if len(s.Questions) > 0 {
		return s.fail("attach questions", ErrInvalidState, "questions already attached")
	}
	if len(qs) == 0 {
		return s.fail("attach questions", ErrInvalidState, "empty question set")
	}
	s.Questions = append([]question.Question(nil), qs...)
	return nil
}

// Start moves a fully collected session into the interview.
func (s *Session) Start() error {
	if s.Status != StatusCollecting {
		return s.fail("start", ErrInvalidTransition, "")
	}
	if len(s.Questions) == 0 {
		return s.fail("start", ErrInvalidTransition, "no questions attached")
	}
	if missing := s.MissingContact(); len(missing) > 0 {
		return s.fail("start", ErrInvalidTransition, "missing "+strings.Join(missing, ", "))
	}
	s.Status = StatusInProgress
	s.Cursor = 0
	s.Timer = Timer{}
	return nil
}

// ActivateCurrentQuestion starts the countdown of the question at the cursor.
// Calling it again while the countdown runs does nothing.
func (s *Session) ActivateCurrentQuestion() error {
	if s.Status != StatusInProgress {
		return s.fail("activate", ErrInvalidTransition, "")
	}
	q, ok := s.Current()
	if !ok {
		return s.fail("activate", ErrInvalidState, "cursor out of range")
	}
	if q.Answered() {
		return s.fail("activate", ErrInvalidState, "question already answered")
	}
	if s.Timer.QuestionID == q.ID {
		if s.Timer.Active {
			return nil
		}
		if s.Timer.Expired {
			return s.fail("activate", ErrInvalidState, "countdown expired, submit the question")
		}
	}
	s.Timer = Timer{QuestionID: q.ID, Remaining: q.TimeLimit, Active: true}
	return nil
}

// Tick takes one second off the active countdown and returns what is left.
// At zero the countdown stops and the question stays unanswered. Without an
// active countdown Tick does nothing and returns 0.
func (s *Session) Tick() (int, error) {
	if s.Status != StatusInProgress {
		return 0, s.fail("tick", ErrInvalidTransition, "")
	}
	if !s.Timer.Active {
		return 0, nil
	}
	s.Timer.Remaining--
	if s.Timer.Remaining <= 0 {
		s.Timer.Remaining = 0
		s.Timer.Active = false
		s.Timer.Expired = true
	}
	return s.Timer.Remaining, nil
}

// Submit records the answer to the current question and stops its countdown.
// It does not score the answer.
func (s *Session) Submit(answer string, elapsed int) error {
	if s.Status != StatusInProgress {
		return s.fail("submit", ErrInvalidTransition, "")
	}
	q, ok := s.Current()
	if !ok {
		return s.fail("submit", ErrInvalidState, "cursor out of range")
	}
	if q.Answered() {
		return s.fail("submit", ErrAlreadyAnswered, "")
	}
	if s.Timer.QuestionID != q.ID {
		return s.fail("submit", ErrInvalidState, "question not activated")
	}
	if elapsed < 0 {
		return s.fail("submit", ErrInvalidState, "negative elapsed time")
	}
	at := s.now()
	q.Answer = &answer
	q.TimeSpent = &elapsed
	q.AnsweredAt = &at
	s.Timer.Active = false
	return nil
}

// ApplyScore records the evaluator result for questionID, which must be the
// answered, unscored question at the cursor. Results for any other question
// are stale and rejected.
func (s *Session) ApplyScore(questionID string, score float64, feedback string) error {
	if s.Status != StatusInProgress {
		return s.fail("apply score", ErrInvalidState, "session not in progress")
	}
	q, ok := s.Current()
	if !ok {
		return s.fail("apply score", ErrInvalidState, "cursor out of range")
	}
	if q.ID != questionID {
		return s.fail("apply score", ErrInvalidState, "result is for question "+questionID+", not the current one")
	}
	if !q.Answered() {
		return s.fail("apply score", ErrInvalidState, "question not answered")
	}
	if q.Scored() {
		return s.fail("apply score", ErrInvalidState, "question already scored")
	}
	if math.IsNaN(score) || score < 0 || score > 10 {
		return s.fail("apply score", ErrInvalidState, "score out of range")
	}
	q.Score = &score
	q.Feedback = &feedback
	return nil
}

// Advance moves past a scored question. On the last question the cursor
// stays put and ReadyToComplete is returned instead.
func (s *Session) Advance() (AdvanceResult, error) {
	if s.Status != StatusInProgress {
		return 0, s.fail("advance", ErrInvalidTransition, "")
	}
	q, ok := s.Current()
	if !ok {
		return 0, s.fail("advance", ErrInvalidState, "cursor out of range")
	}
	if !q.Answered() || !q.Scored() {
		return 0, s.fail("advance", ErrInvalidState, "question not answered and scored")
	}
	if s.IsLast() {
		s.AwaitingCompletion = true
		return ReadyToComplete, nil
	}
	s.Cursor++
	s.Timer = Timer{}
	return HasMoreQuestions, nil
}

// ForceAdvance gives up on evaluating the current answer. The question is
// scored 0 with AbandonedFeedback and the session advances as with Advance.
func (s *Session) ForceAdvance() (AdvanceResult, error) {
	if s.Status != StatusInProgress {
		return 0, s.fail("force advance", ErrInvalidTransition, "")
	}
	q, ok := s.Current()
	if !ok {
		return 0, s.fail("force advance", ErrInvalidState, "cursor out of range")
	}
	if !q.Answered() {
		return 0, s.fail("force advance", ErrInvalidState, "question not answered")
	}
	if !q.Scored() {
		zero, fb := 0.0, AbandonedFeedback
		q.Score = &zero
		q.Feedback = &fb
	}
	return s.Advance()
}

// Complete closes the session with the aggregated result. It is valid once,
// after Advance has returned ReadyToComplete.
func (s *Session) Complete(finalScore float64, summary string) error {
	if s.Status != StatusInProgress {
		return s.fail("complete", ErrInvalidTransition, "")
	}
	if !s.AwaitingCompletion {
		return s.fail("complete", ErrInvalidTransition, "questions remain")
	}
	if math.IsNaN(finalScore) || finalScore < 0 || finalScore > 10 {
		return s.fail("complete", ErrInvalidState, "final score out of range")
	}
	at := s.now()
	s.FinalScore = &finalScore
	s.FinalSummary = summary
	s.CompletedAt = &at
	s.Status = StatusCompleted
	s.Timer = Timer{}
	return nil
}
