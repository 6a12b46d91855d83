package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides mirrors Config for SCREENER_* variables. Unset variables leave
// the file configuration alone.
type envOverrides struct {
	Store       string `env:"SCREENER_STORE"`
	DataDir     string `env:"SCREENER_DATA_DIR"`
	CatalogPath string `env:"SCREENER_CATALOG"`
	Format      string `env:"SCREENER_FORMAT"`
	OutputDir   string `env:"SCREENER_OUTPUT_DIR"`
	EvalTimeout string `env:"SCREENER_EVAL_TIMEOUT"`
	EvalRetries int    `env:"SCREENER_EVAL_RETRIES"`
	Addr        string `env:"SCREENER_ADDR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays SCREENER_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}
	overlay(cfg, &Config{
		Store:         o.Store,
		DataDir:       o.DataDir,
		CatalogPath:   o.CatalogPath,
		DefaultFormat: o.Format,
		OutputDir:     o.OutputDir,
		EvalTimeout:   o.EvalTimeout,
		EvalRetries:   o.EvalRetries,
		Addr:          o.Addr,
	})
	return nil
}
