package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fakeyudi/screener/internal/question"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
	Ext() string
}

// RendererFor returns the renderer for "markdown" or "json".
func RendererFor(format string) (Renderer, error) {
	switch format {
	case "", "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q (want markdown or json)", format)
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Ext() string { return ".json" }

func (JSONRenderer) Render(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MarkdownRenderer renders a Report as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Ext() string { return ".md" }

const (
	versionSentinel = "<!-- screener-report-version: 1 -->"
	dataPrefix      = "<!-- screener-data: "
	dataSuffix      = " -->"
)

func (MarkdownRenderer) Render(r *Report) ([]byte, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder
	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	name := r.Candidate.Name
	if name == "" {
		name = r.Candidate.SessionID
	}
	fmt.Fprintf(&sb, "# Interview: %s\n\n", name)

	sb.WriteString("## Candidate\n\n")
	fmt.Fprintf(&sb, "- Email: %s\n", orDash(r.Candidate.Email))
	fmt.Fprintf(&sb, "- Phone: %s\n", orDash(r.Candidate.Phone))
	if r.Candidate.ResumeFile != "" {
		fmt.Fprintf(&sb, "- Resume: %s\n", r.Candidate.ResumeFile)
	}
	fmt.Fprintf(&sb, "- Session: %s\n", r.Candidate.SessionID)
	fmt.Fprintf(&sb, "- Started: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if r.CompletedAt != nil {
		fmt.Fprintf(&sb, "- Completed: %s (%s)\n", r.CompletedAt.Format("2006-01-02 15:04:05 MST"), r.Duration)
	}
	sb.WriteString("\n")

	sb.WriteString("## Result\n\n")
	if r.FinalScore == nil {
		fmt.Fprintf(&sb, "_Interview not completed (status: %s)._\n", r.Status)
	} else {
		fmt.Fprintf(&sb, "**%.1f/10**, %s\n\n", *r.FinalScore, r.Tier)
		sb.WriteString("| Difficulty | Mean |\n")
		sb.WriteString("|------------|------|\n")
		for _, d := range question.Order {
			fmt.Fprintf(&sb, "| %s | %.1f |\n", d, r.Means[string(d)])
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Questions\n\n")
	if len(r.Questions) == 0 {
		sb.WriteString("_No questions drawn._\n")
	}
	for _, e := range r.Questions {
		fmt.Fprintf(&sb, "### %d. [%s] %s\n\n", e.Index, e.Difficulty, e.Prompt)
		if e.Answer == nil {
			sb.WriteString("_Not answered._\n\n")
			continue
		}
		spent := 0
		if e.TimeSpent != nil {
			spent = *e.TimeSpent
		}
		fmt.Fprintf(&sb, "- Time: %ds of %ds\n", spent, e.TimeLimit)
		if e.Score != nil {
			fmt.Fprintf(&sb, "- Score: %.1f/10\n", *e.Score)
		} else {
			sb.WriteString("- Score: _pending_\n")
		}
		if e.Feedback != nil {
			fmt.Fprintf(&sb, "- Feedback: %s\n", *e.Feedback)
		}
		sb.WriteString("\n")
		for _, line := range strings.Split(*e.Answer, "\n") {
			fmt.Fprintf(&sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
