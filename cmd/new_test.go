package cmd

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/screener/internal/session"
)

func TestNewWithFlags(t *testing.T) {
	sandbox(t)
	id := newSession(t, "--name", "ada  lovelace", "--email", "ada@example.com", "--phone", "555-123-4567")

	store, closeStore, err := openStore()
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeStore()
	s, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Name != "Ada Lovelace" || s.Status != session.StatusInProgress {
		t.Errorf("session = %q %s", s.Name, s.Status)
	}
	if len(s.Questions) != 6 {
		t.Errorf("questions = %d, want the default plan's 6", len(s.Questions))
	}
}

func TestNewPromptsForMissingContact(t *testing.T) {
	sandbox(t)
	out, err := executeCommand(rootCmd, "not-an-email\nada@example.com\n555-123-4567\n", "new", "--name", "Ada Lovelace")
	if err != nil {
		t.Fatalf("new: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Candidate email") || !sessionIDRe.MatchString(out) {
		t.Errorf("output:\n%s", out)
	}
}

func TestNewRejectsBadFlags(t *testing.T) {
	sandbox(t)
	_, err := executeCommand(rootCmd, "", "new", "--email", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid email") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewUnsupportedResume(t *testing.T) {
	sandbox(t)
	_, err := executeCommand(rootCmd, "", "new", "--resume", "cv.txt")
	if err == nil || !strings.Contains(err.Error(), "reading resume") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewGivesUpWithoutContact(t *testing.T) {
	sandbox(t)
	if _, err := executeCommand(rootCmd, "", "new"); err == nil {
		t.Fatal("expected an error when no contact details can be collected")
	}
}

func writeDOCX(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, l := range lines {
		body.WriteString(`<w:p><w:r><w:t>` + l + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewFromResume(t *testing.T) {
	sandbox(t)
	path := filepath.Join(t.TempDir(), "cv.docx")
	writeDOCX(t, path, "Grace Hopper", "grace@navy.mil", "Phone: 555-867-5309", "Rear admiral and compiler pioneer.")

	// The phone flag overrides the resume.
	id := newSession(t, "--resume", path, "--phone", "555-000-1111")

	store, closeStore, err := openStore()
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeStore()
	s, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Name != "Grace Hopper" || s.Email != "grace@navy.mil" || s.Phone != "555-000-1111" {
		t.Errorf("contact = %q %q %q", s.Name, s.Email, s.Phone)
	}
	if s.ResumeFileName != "cv.docx" || !strings.Contains(s.ResumeText, "compiler pioneer") {
		t.Errorf("resume = %q %q", s.ResumeFileName, s.ResumeText)
	}
}
