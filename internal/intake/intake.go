// Package intake asks the operator for whatever the resume did not provide:
// missing candidate contact fields, and the project settings written by
// `screener init`.
package intake

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fakeyudi/screener/internal/session"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
)

// maxAttempts bounds re-prompting for one invalid field.
const maxAttempts = 3

// Prompter reads answers line by line from in and writes prompts to out.
type Prompter struct {
	r   *bufio.Reader
	out io.Writer
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(in), out: out}
}

// Ask prints prompt, with defaultVal in brackets when set, and returns the
// trimmed answer or defaultVal for an empty line.
func (p *Prompter) Ask(prompt, defaultVal string) (string, error) {
	if defaultVal != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal, nil
	}
	return line, nil
}

// AskBool asks a y/n question.
func (p *Prompter) AskBool(prompt string, defaultVal bool) (bool, error) {
	def := "n"
	if defaultVal {
		def = "y"
	}
	ans, err := p.Ask(prompt+" (y/n)", def)
	if err != nil {
		return false, err
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes", nil
}

// field is one contact value with its prompt and check.
type field struct {
	key    string
	prompt string
	valid  func(string) bool
	clean  func(string) string
	set    func(s *session.Session, v string) error
}

var titleCaser = cases.Title(language.Und)

// NormalizeName collapses whitespace and title-cases each word.
func NormalizeName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool { return phoneRe.MatchString(s) }

var fields = []field{
	{
		key:    "name",
		prompt: "Candidate full name",
		valid:  func(v string) bool { return len(strings.Fields(v)) >= 1 },
		clean:  NormalizeName,
		set:    func(s *session.Session, v string) error { return s.SetContact(v, "", "") },
	},
	{
		key:    "email",
		prompt: "Candidate email",
		valid:  ValidEmail,
		clean:  strings.ToLower,
		set:    func(s *session.Session, v string) error { return s.SetContact("", v, "") },
	},
	{
		key:    "phone",
		prompt: "Candidate phone",
		valid:  ValidPhone,
		clean:  func(v string) string { return v },
		set:    func(s *session.Session, v string) error { return s.SetContact("", "", v) },
	},
}

// CollectContact prompts for every contact field s is missing, re-asking a
// few times when an answer does not validate.
func CollectContact(p *Prompter, s *session.Session) error {
	missing := map[string]bool{}
	for _, k := range s.MissingContact() {
		missing[k] = true
	}
	if len(missing) == 0 {
		return nil
	}
	fmt.Fprintln(p.out, "  The resume did not include everything we need.")
	for _, f := range fields {
		if !missing[f.key] {
			continue
		}
		v, err := askValid(p, f)
		if err != nil {
			return err
		}
		if err := f.set(s, v); err != nil {
			return err
		}
	}
	return nil
}

func askValid(p *Prompter, f field) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := p.Ask("  "+f.prompt, "")
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", f.key, err)
		}
		if v != "" && f.valid(v) {
			return f.clean(v), nil
		}
		fmt.Fprintf(p.out, "  That does not look like a valid %s.\n", f.key)
	}
	return "", fmt.Errorf("no valid %s after %d attempts", f.key, maxAttempts)
}
