// Package resume extracts plain text and contact details from PDF and DOCX
// resumes.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize is the largest resume accepted, in bytes.
const MaxSize = 10 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported resume format, use PDF or DOCX")
	ErrFileTooLarge      = errors.New("resume larger than 10 MiB")
	ErrParseFailure      = errors.New("failed to parse resume")
)

// Format is a supported resume file type.
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
)

// Media types accepted by DetectFormat.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DetectFormat picks the format from an explicit media type, falling back to
// the file extension when mime is empty.
func DetectFormat(name, mime string) (Format, error) {
	if mime != "" {
		switch strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])) {
		case MIMEPDF:
			return PDF, nil
		case MIMEDOCX:
			return DOCX, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF, nil
	case ".docx":
		return DOCX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
}

// Data is what a resume yields. Contact fields are empty when not found.
type Data struct {
	Text  string `json:"text"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Extract parses data in the given format. Format and size are checked before
// any parsing.
func Extract(data []byte, f Format) (Data, error) {
	if f != PDF && f != DOCX {
		return Data{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if len(data) > MaxSize {
		return Data{}, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}

	var (
		text string
		err  error
	)
	switch f {
	case PDF:
		text, err = pdfText(data)
	case DOCX:
		text, err = docxText(data)
	}
	if err != nil {
		return Data{}, fmt.Errorf("%w (%s): %w", ErrParseFailure, f, err)
	}

	c := ParseContact(text)
	return Data{Text: text, Name: c.Name, Email: c.Email, Phone: c.Phone}, nil
}

// ExtractFile detects the format from path's extension, checks the size on
// disk and extracts the file.
func ExtractFile(path string) (Data, error) {
	f, err := DetectFormat(path, "")
	if err != nil {
		return Data{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading resume: %w", err)
	}
	if info.Size() > MaxSize {
		return Data{}, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, filepath.Base(path), info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading resume: %w", err)
	}
	return Extract(data, f)
}
