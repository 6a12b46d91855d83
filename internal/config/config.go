// Package config loads screener settings from the global config file, the
// project .screenerconfig and SCREENER_* environment variables, in rising
// order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fakeyudi/screener/internal/question"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".screenerconfig"

// Config holds all configurable screener settings.
type Config struct {
	Store         string `json:"store"`          // "file" | "sqlite"
	DataDir       string `json:"data_dir"`       // empty: XDG data dir
	CatalogPath   string `json:"catalog"`        // empty: built-in catalog
	DefaultFormat string `json:"default_format"` // "markdown" | "json"
	OutputDir     string `json:"output_dir"`
	EvalTimeout   string `json:"eval_timeout"` // Go duration, e.g. "10s"
	EvalRetries   int    `json:"eval_retries"`
	Addr          string `json:"addr"` // serve listen address

	// Plan overrides the question plan, keyed by "easy", "medium", "hard".
	Plan map[string]question.Bucket `json:"plan,omitempty"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Store:         "file",
		DefaultFormat: "markdown",
		OutputDir:     ".",
		EvalTimeout:   "10s",
		EvalRetries:   3,
		Addr:          "127.0.0.1:8080",
	}
}

// GlobalPath returns ~/.config/screener/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "screener", "config.json"), nil
}

// LoadGlobal reads ~/.config/screener/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .screenerconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectFile, false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Save writes cfg as indented JSON to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	overlay(&result, global)
	overlay(&result, project)
	return result
}

func overlay(dst, src *Config) {
	if src == nil {
		return
	}
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.Store, src.Store)
	set(&dst.DataDir, src.DataDir)
	set(&dst.CatalogPath, src.CatalogPath)
	set(&dst.DefaultFormat, src.DefaultFormat)
	set(&dst.OutputDir, src.OutputDir)
	set(&dst.EvalTimeout, src.EvalTimeout)
	set(&dst.Addr, src.Addr)
	if src.EvalRetries > 0 {
		dst.EvalRetries = src.EvalRetries
	}
	if len(src.Plan) > 0 {
		dst.Plan = src.Plan
	}
}

// Load returns the merged global, project and environment configuration.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, err
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, err
	}
	cfg := Merge(global, project)
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields and the timeout syntax.
func (c Config) Validate() error {
	switch c.Store {
	case "file", "sqlite":
	default:
		return fmt.Errorf("config: store must be file or sqlite, got %q", c.Store)
	}
	switch c.DefaultFormat {
	case "markdown", "json":
	default:
		return fmt.Errorf("config: default_format must be markdown or json, got %q", c.DefaultFormat)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.QuestionPlan(); err != nil {
		return err
	}
	return nil
}

// Timeout parses EvalTimeout. An empty value means no per-attempt deadline.
func (c Config) Timeout() (time.Duration, error) {
	if c.EvalTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.EvalTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("config: eval_timeout %q is not a valid duration", c.EvalTimeout)
	}
	return d, nil
}

// QuestionPlan returns Plan as a question.Plan, or question.DefaultPlan when
// no plan is configured.
func (c Config) QuestionPlan() (question.Plan, error) {
	if len(c.Plan) == 0 {
		return question.DefaultPlan(), nil
	}
	p := question.Plan{}
	for k, b := range c.Plan {
		d, err := question.ParseDifficulty(k)
		if err != nil {
			return nil, fmt.Errorf("config: plan: %w", err)
		}
		p[d] = b
	}
	return p, nil
}

// ResolveDataDir returns DataDir, or dflt when it is unset. A leading ~ is
// expanded.
func (c Config) ResolveDataDir(dflt string) string {
	if c.DataDir == "" {
		return dflt
	}
	if strings.HasPrefix(c.DataDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.DataDir[2:])
		}
	}
	return c.DataDir
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
