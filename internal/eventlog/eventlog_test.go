package eventlog

import (
	"os"
	"sync"
	"testing"
)

func TestAppendAndRead(t *testing.T) {
	l, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	score := 7.5
	events := []Event{
		{Event: EventSessionStarted, SessionID: "a"},
		{Event: EventScoreApplied, SessionID: "b", QuestionID: "q1", Index: 1, Score: &score},
		{Event: EventSessionCompleted, SessionID: "a", Tier: "Good"},
	}
	for _, e := range events {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Time.IsZero() {
		t.Error("Append did not stamp the time")
	}
	if all[1].Score == nil || *all[1].Score != 7.5 {
		t.Errorf("score lost: %+v", all[1])
	}

	mine, err := l.ForSession("a")
	if err != nil {
		t.Fatalf("ForSession: %v", err)
	}
	if len(mine) != 2 || mine[1].Event != EventSessionCompleted {
		t.Errorf("ForSession(a) = %+v", mine)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, _ := New(t.TempDir())
	got, err := l.ReadAll()
	if err != nil || len(got) != 0 {
		t.Errorf("ReadAll on empty log = %v, %v", got, err)
	}
}

func TestReadAllCorruptLine(t *testing.T) {
	l, _ := New(t.TempDir())
	if err := os.WriteFile(l.Path(), []byte("{\"event\":\"x\"}\nnot json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ReadAll(); err == nil {
		t.Error("ReadAll accepted a corrupt line")
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	if err := l.Append(Event{Event: EventSessionCreated}); err != nil {
		t.Errorf("nil Append: %v", err)
	}
}

func TestConcurrentAppend(t *testing.T) {
	l, _ := New(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Append(Event{Event: EventAnswerSubmitted, SessionID: "s"})
		}()
	}
	wg.Wait()
	all, err := l.ReadAll()
	if err != nil || len(all) != 20 {
		t.Errorf("got %d events, err %v", len(all), err)
	}
}
