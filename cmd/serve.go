package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/api"
	"github.com/fakeyudi/screener/internal/question"
)

var serveAddr string

// staticCatalog serves the built-in catalog when no catalog file is set.
type staticCatalog question.Catalog

func (c staticCatalog) Catalog() question.Catalog { return question.Catalog(c) }

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only HTTP view of sessions and reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		log, err := openLogger()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var catalog api.CatalogSource = staticCatalog(question.DefaultCatalog())
		if cfg.CatalogPath != "" {
			w, err := question.NewWatcher(cfg.CatalogPath)
			if err != nil {
				return err
			}
			go func() {
				if err := w.Run(ctx, func(err error) {
					cmd.PrintErrf("catalog reload: %v\n", err)
				}); err != nil {
					cmd.PrintErrf("catalog watcher stopped: %v\n", err)
				}
			}()
			catalog = w
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}
		cmd.Printf("Serving on http://%s (ctrl+c to stop)\n", addr)
		return api.New(store, api.WithCatalog(catalog), api.WithEvents(log)).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
