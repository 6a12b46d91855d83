package sqlite

import (
	"time"

	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
)

// sessionRow is the sessions table.
type sessionRow struct {
	ID        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Name           string `gorm:"index"`
	Email          string `gorm:"index"`
	Phone          string
	ResumeFileName string
	ResumeText     string

	Status             string `gorm:"not null"`
	Cursor             int
	TimerQuestionID    string
	TimerRemaining     int
	TimerActive        bool
	TimerExpired       bool
	AwaitingCompletion bool

	FinalScore   *float64
	FinalSummary string
	CompletedAt  *time.Time

	Questions []questionRow `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (sessionRow) TableName() string { return "sessions" }

// questionRow is the questions table. Position keeps the session order.
type questionRow struct {
	ID         uint   `gorm:"primaryKey"`
	SessionID  string `gorm:"not null;index:idx_session_position,unique"`
	Position   int    `gorm:"not null;index:idx_session_position,unique"`
	QuestionID string `gorm:"not null"`
	Prompt     string
	Difficulty string
	TimeLimit  int

	Answer     *string
	TimeSpent  *int
	Score      *float64
	Feedback   *string
	AnsweredAt *time.Time
}

func (questionRow) TableName() string { return "questions" }

func toRow(s *session.Session) sessionRow {
	r := sessionRow{
		ID:                 s.ID,
		CreatedAt:          s.CreatedAt,
		Name:               s.Name,
		Email:              s.Email,
		Phone:              s.Phone,
		ResumeFileName:     s.ResumeFileName,
		ResumeText:         s.ResumeText,
		Status:             string(s.Status),
		Cursor:             s.Cursor,
		TimerQuestionID:    s.Timer.QuestionID,
		TimerRemaining:     s.Timer.Remaining,
		TimerActive:        s.Timer.Active,
		TimerExpired:       s.Timer.Expired,
		AwaitingCompletion: s.AwaitingCompletion,
		FinalScore:         s.FinalScore,
		FinalSummary:       s.FinalSummary,
		CompletedAt:        s.CompletedAt,
		Questions:          make([]questionRow, len(s.Questions)),
	}
	for i, q := range s.Questions {
		r.Questions[i] = questionRow{
			SessionID:  s.ID,
			Position:   i,
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			Difficulty: string(q.Difficulty),
			TimeLimit:  q.TimeLimit,
			Answer:     q.Answer,
			TimeSpent:  q.TimeSpent,
			Score:      q.Score,
			Feedback:   q.Feedback,
			AnsweredAt: q.AnsweredAt,
		}
	}
	return r
}

func (r sessionRow) toSession() *session.Session {
	s := &session.Session{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		ResumeFileName: r.ResumeFileName,
		ResumeText:     r.ResumeText,
		Questions:      make([]question.Question, len(r.Questions)),
		Cursor:         r.Cursor,
		Status:         session.Status(r.Status),
		Timer: session.Timer{
			QuestionID: r.TimerQuestionID,
			Remaining:  r.TimerRemaining,
			Active:     r.TimerActive,
			Expired:    r.TimerExpired,
		},
		AwaitingCompletion: r.AwaitingCompletion,
		FinalScore:         r.FinalScore,
		FinalSummary:       r.FinalSummary,
		CreatedAt:          r.CreatedAt,
		CompletedAt:        r.CompletedAt,
	}
	for i, q := range r.Questions {
		s.Questions[i] = question.Question{
			ID:         q.QuestionID,
			Prompt:     q.Prompt,
			Difficulty: question.Difficulty(q.Difficulty),
			TimeLimit:  q.TimeLimit,
			Answer:     q.Answer,
			TimeSpent:  q.TimeSpent,
			Score:      q.Score,
			Feedback:   q.Feedback,
			AnsweredAt: q.AnsweredAt,
		}
	}
	return s
}
