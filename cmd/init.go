package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/config"
	"github.com/fakeyudi/screener/internal/intake"
	"github.com/fakeyudi/screener/internal/question"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .screenerconfig for this directory (re-run anytime to edit it)",
	// Bypass the normal PersistentPreRunE so a broken config can be fixed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		existing := config.Defaults()
		global, gerr := config.LoadGlobal()
		project, perr := config.LoadProject()
		if gerr == nil && perr == nil {
			existing = config.Merge(global, project)
		}

		p := intake.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		next, err := intake.RunSetup(p, existing)
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := config.Save(config.ProjectFile, next); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		cmd.Printf("  ✓ Saved %s\n", config.ProjectFile)

		if next.CatalogPath != "" {
			if _, err := os.Stat(next.CatalogPath); os.IsNotExist(err) {
				if err := question.WriteCatalog(next.CatalogPath, question.DefaultCatalog()); err != nil {
					return fmt.Errorf("writing catalog: %w", err)
				}
				cmd.Printf("  ✓ Wrote the built-in questions to %s\n", next.CatalogPath)
			}
		}
		cmd.Println("  Setup complete. Run 'screener new' to register a candidate.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
