package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(\+?1?[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
)

// Contact holds the details found in resume text.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ParseContact finds the first email address, the first phone number and a
// likely name among the first five non-blank lines.
func ParseContact(text string) Contact {
	return Contact{
		Name:  findName(text),
		Email: emailRe.FindString(text),
		Phone: strings.TrimSpace(phoneRe.FindString(text)),
	}
}

// findName returns the first line of two to four capitalised words with no
// digits or '@'.
func findName(text string) string {
	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if checked == 5 {
			break
		}
		checked++
		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n < 2 || n >= 20 || strings.ContainsAny(w, "0123456789@") {
			return false
		}
		first, _ := utf8.DecodeRuneInString(w)
		if unicode.ToUpper(first) != first {
			return false
		}
	}
	return true
}
