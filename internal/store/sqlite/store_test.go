package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "screener.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(id string, created time.Time) *session.Session {
	s := session.New(id)
	s.CreatedAt = created
	s.Name, s.Email, s.Phone = "Ada Lovelace", "ada@example.com", "555-123-4567"
	s.Questions = []question.Question{
		{ID: id + "-1", Prompt: "What is JSX?", Difficulty: question.Easy, TimeLimit: 20},
		{ID: id + "-2", Prompt: "Explain the virtual DOM.", Difficulty: question.Medium, TimeLimit: 60},
	}
	return s
}

func TestSaveGetRoundTrip(t *testing.T) {
	store := openTemp(t)
	want := sample("s1", epoch)
	want.Status = session.StatusInProgress
	answer, spent, score, fb := "JSX is syntax sugar", 12, 6.5, "Good."
	at := epoch.Add(time.Minute)
	q := &want.Questions[0]
	q.Answer, q.TimeSpent, q.Score, q.Feedback, q.AnsweredAt = &answer, &spent, &score, &fb, &at
	want.Cursor = 1
	want.Timer = session.Timer{QuestionID: "s1-2", Remaining: 41, Active: true}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get("s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Name != want.Name || got.Status != want.Status || got.Cursor != 1 || got.Timer != want.Timer {
		t.Errorf("session fields = %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if len(got.Questions) != 2 || got.Questions[0].ID != "s1-1" || got.Questions[1].ID != "s1-2" {
		t.Fatalf("questions = %+v", got.Questions)
	}
	g := got.Questions[0]
	if *g.Answer != answer || *g.TimeSpent != spent || *g.Score != score || *g.Feedback != fb || !g.AnsweredAt.Equal(at) {
		t.Errorf("answered question = %+v", g)
	}
	if got.Questions[1].Answered() || got.Questions[1].Scored() {
		t.Errorf("unanswered question gained fields: %+v", got.Questions[1])
	}
}

func TestSaveIsUpsert(t *testing.T) {
	store := openTemp(t)
	s := sample("s1", epoch)
	if err := store.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	final := 7.0
	now := epoch.Add(time.Hour)
	s.Status, s.FinalScore, s.FinalSummary, s.CompletedAt = session.StatusCompleted, &final, "Overall Score: 7.0/10", &now
	s.Questions = s.Questions[:1]
	if err := store.Save(s); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.Get("s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != session.StatusCompleted || got.FinalScore == nil || *got.FinalScore != 7 {
		t.Errorf("upsert lost completion: %+v", got)
	}
	if len(got.Questions) != 1 {
		t.Errorf("questions = %d, want 1", len(got.Questions))
	}
	list, _ := store.List()
	if len(list) != 1 {
		t.Errorf("List = %d rows, want 1", len(list))
	}
}

func TestListAndDelete(t *testing.T) {
	store := openTemp(t)
	for i, id := range []string{"b", "a", "c"} {
		if err := store.Save(sample(id, epoch.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}
	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].ID != "b" || list[2].ID != "c" || list[1].Total != 2 {
		t.Fatalf("List = %+v", list)
	}

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("a"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get deleted err = %v, want ErrNotFound", err)
	}
	if err := store.Delete("a"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Delete missing err = %v, want ErrNotFound", err)
	}
	var orphans int64
	store.db.Model(&questionRow{}).Where("session_id = ?", "a").Count(&orphans)
	if orphans != 0 {
		t.Errorf("%d orphan question rows", orphans)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTemp(t)
	if _, err := store.Get("nope"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
