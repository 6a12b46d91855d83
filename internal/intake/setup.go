package intake

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fakeyudi/screener/internal/config"
	"github.com/fakeyudi/screener/internal/question"
)

// RunSetup runs the interactive project setup wizard. existing supplies the
// default for each prompt.
func RunSetup(p *Prompter, existing config.Config) (config.Config, error) {
	cfg := existing

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(p.out, "  │   screener — project setup      │")
	fmt.Fprintln(p.out, "  └─────────────────────────────────┘")
	fmt.Fprintln(p.out)

	store, err := p.Ask("  Session store (file/sqlite)", cfg.Store)
	if err != nil {
		return cfg, err
	}
	if store == "sqlite" {
		cfg.Store = "sqlite"
	} else {
		cfg.Store = "file"
	}

	format, err := p.Ask("  Default report format (markdown/json)", cfg.DefaultFormat)
	if err != nil {
		return cfg, err
	}
	if format == "json" {
		cfg.DefaultFormat = "json"
	} else {
		cfg.DefaultFormat = "markdown"
	}

	if cfg.OutputDir, err = p.Ask("  Report output directory", cfg.OutputDir); err != nil {
		return cfg, err
	}
	if cfg.CatalogPath, err = p.Ask("  Question catalog file (YAML)", cfg.CatalogPath); err != nil {
		return cfg, err
	}

	custom, err := p.AskBool("  Customise the question plan", len(cfg.Plan) > 0)
	if err != nil {
		return cfg, err
	}
	if !custom {
		cfg.Plan = nil
		fmt.Fprintln(p.out)
		return cfg, nil
	}

	plan, err := cfg.QuestionPlan()
	if err != nil {
		plan = question.DefaultPlan()
	}
	cfg.Plan = map[string]question.Bucket{}
	for _, d := range question.Order {
		b := plan[d]
		count, err := askInt(p, fmt.Sprintf("  %s questions", d), b.Count)
		if err != nil {
			return cfg, err
		}
		limit, err := askInt(p, fmt.Sprintf("  %s time limit (seconds)", d), b.TimeLimit)
		if err != nil {
			return cfg, err
		}
		cfg.Plan[strings.ToLower(string(d))] = question.Bucket{Count: count, TimeLimit: limit}
	}
	fmt.Fprintln(p.out)
	return cfg, nil
}

func askInt(p *Prompter, prompt string, defaultVal int) (int, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := p.Ask(prompt, strconv.Itoa(defaultVal))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, "  Enter a whole number.")
	}
	return 0, fmt.Errorf("%s: no valid number after %d attempts", prompt, maxAttempts)
}
