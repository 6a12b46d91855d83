package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/screener/internal/report"
)

func TestShowSessionPlain(t *testing.T) {
	sandbox(t)
	id := newSession(t, "--name", "Ada Lovelace", "--email", "ada@example.com", "--phone", "555-123-4567")

	out, err := executeCommand(rootCmd, "", "show", id, "--plain")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	sections := []string{"## Candidate", "## Result", "## Questions"}
	last := -1
	for _, s := range sections {
		i := strings.Index(out, s)
		if i <= last {
			t.Fatalf("section %q missing or out of order:\n%s", s, out)
		}
		last = i
	}
	if !strings.Contains(out, "(interview not completed)") {
		t.Errorf("unfinished session should say so:\n%s", out)
	}
}

func TestShowFormatJSON(t *testing.T) {
	sandbox(t)
	id := newSession(t, "--name", "Ada Lovelace", "--email", "ada@example.com", "--phone", "555-123-4567")

	out, err := executeCommand(rootCmd, "", "show", id, "--format", "json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}
	if r.Candidate.SessionID != id || len(r.Questions) != 6 {
		t.Errorf("report = %+v", r.Candidate)
	}
}

func TestShowReportFile(t *testing.T) {
	outDir := sandbox(t)
	id := newSession(t, "--name", "Ada Lovelace", "--email", "ada@example.com", "--phone", "555-123-4567")
	if _, err := executeCommand(rootCmd, answers(6), "run", id, "--plain", "--tick", "1h"); err != nil {
		t.Fatalf("run: %v", err)
	}
	resetFlags()

	matches, _ := filepath.Glob(filepath.Join(outDir, "*.md"))
	if len(matches) != 1 {
		t.Fatalf("reports = %v", matches)
	}
	out, err := executeCommand(rootCmd, "", "show", matches[0], "--plain")
	if err != nil {
		t.Fatalf("show file: %v", err)
	}
	if !strings.Contains(out, "Score:") || strings.Contains(out, "not completed") {
		t.Errorf("output:\n%s", out)
	}
}

func TestShowMissing(t *testing.T) {
	sandbox(t)
	_, err := executeCommand(rootCmd, "", "show", "missing.md", "--plain")
	if err == nil || !strings.Contains(err.Error(), "no file named missing.md") {
		t.Fatalf("err = %v", err)
	}
}

func TestShowBrokenFile(t *testing.T) {
	sandbox(t)
	if err := os.WriteFile("broken.md", []byte("# hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := executeCommand(rootCmd, "", "show", "broken.md", "--plain")
	if err == nil || !strings.Contains(err.Error(), "not a valid screener report") {
		t.Fatalf("err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	sandbox(t)
	id := newSession(t, "--name", "Ada Lovelace", "--email", "ada@example.com", "--phone", "555-123-4567")

	out, err := executeCommand(rootCmd, "", "delete", id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "deleted") {
		t.Errorf("output = %q", out)
	}
	if _, err := executeCommand(rootCmd, "", "status", id); err == nil {
		t.Error("status of a deleted session should fail")
	}
	if _, err := executeCommand(rootCmd, "", "delete", id); err == nil {
		t.Error("deleting twice should fail")
	}
}
