package question

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned by LoadCatalog when no bucket holds a prompt.
var ErrEmptyCatalog = errors.New("catalog has no questions")

// catalogFile is the on-disk YAML layout of a catalog.
type catalogFile struct {
	Easy   []string `yaml:"easy"`
	Medium []string `yaml:"medium"`
	Hard   []string `yaml:"hard"`
}

// DefaultCatalog returns the built-in full-stack screening prompts.
func DefaultCatalog() Catalog {
	return Catalog{
		Easy: {
			"What is the difference between let, const, and var in JavaScript?",
			"Explain the concept of props in React components.",
			"What is the purpose of the useState hook in React?",
			"How do you handle events in React?",
			"What is the difference between null and undefined in JavaScript?",
		},
		Medium: {
			"Explain the React component lifecycle methods and their purposes.",
			"How would you optimize a React application's performance?",
			"Describe the differences between REST and GraphQL APIs.",
			"How do you handle state management in a large React application?",
			"Explain the concept of middleware in Express.js and provide an example.",
		},
		Hard: {
			"Design and implement a custom React hook for handling complex async operations with caching.",
			"How would you implement server-side rendering (SSR) in a React application and what are the trade-offs?",
			"Explain the event loop in Node.js and how it handles asynchronous operations.",
			"Design a scalable microservices architecture for an e-commerce platform.",
			"How would you implement real-time communication between multiple clients in a Node.js application?",
		},
	}
}

// LoadCatalog reads a YAML catalog with easy, medium and hard prompt lists.
// Unknown keys are rejected, as is a catalog without any prompt.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(f.Easy)+len(f.Medium)+len(f.Hard) == 0 {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, ErrEmptyCatalog)
	}
	return Catalog{Easy: f.Easy, Medium: f.Medium, Hard: f.Hard}, nil
}

// WriteCatalog writes c to path as YAML, creating the parent directory.
func WriteCatalog(path string, c Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	data, err := yaml.Marshal(catalogFile{Easy: c[Easy], Medium: c[Medium], Hard: c[Hard]})
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// Sizes reports how many prompts the catalog holds per difficulty.
func (c Catalog) Sizes() map[Difficulty]int {
	out := make(map[Difficulty]int, len(Order))
	for _, d := range Order {
		out[d] = len(c[d])
	}
	return out
}
