package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName returns the report file name for r: screener-<name>-<id8><ext>.
func FileName(r *Report, ext string) string {
	slug := slugify(r.Candidate.Name)
	id := r.Candidate.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	if slug == "" {
		return "screener-" + id + ext
	}
	return "screener-" + slug + "-" + id + ext
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Write renders r into dir and returns the written path.
func Write(dir string, r *Report, rd Renderer) (string, error) {
	data, err := rd.Render(r)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(r, rd.Ext()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return path, nil
}
