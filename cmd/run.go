package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/aggregate"
	"github.com/fakeyudi/screener/internal/interview"
	"github.com/fakeyudi/screener/internal/report"
	"github.com/fakeyudi/screener/internal/session"
	"github.com/fakeyudi/screener/internal/tui"
)

var (
	runPlain  bool
	runFormat string
	runTick   time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Conduct (or resume) the interview of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		s, err := findSession(store, args[0])
		if err != nil {
			return err
		}
		format := runFormat
		if format == "" {
			format = cfg.DefaultFormat
		}
		rd, err := report.RendererFor(format)
		if err != nil {
			return err
		}

		log, err := openLogger()
		if err != nil {
			return err
		}
		eval, err := newEvaluator(log, s.ID)
		if err != nil {
			return err
		}
		c := interview.New(s, store, eval, interview.WithLogger(log))
		if s.Status == session.StatusCollecting {
			if err := c.Start(); err != nil {
				return fmt.Errorf("session %s cannot start: %w", s.ID, err)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var res *aggregate.Result
		if runPlain || !term.IsTerminal(os.Stdin.Fd()) {
			res, err = interview.RunPlain(ctx, c, cmd.InOrStdin(), cmd.OutOrStdout(),
				interview.PlainOptions{TickInterval: runTick})
		} else {
			res, err = tui.RunInterview(ctx, c, tui.WithTickInterval(runTick))
		}
		switch {
		case errors.Is(err, tui.ErrInterrupted), errors.Is(err, interview.ErrInputClosed), ctx.Err() != nil:
			cmd.Printf("\nInterview paused after %d of %d questions. Resume with: screener run %s\n",
				s.Progress().Scored, len(s.Questions), s.ID)
			return nil
		case err != nil:
			return err
		}

		path, err := report.Write(cfg.OutputDir, report.FromSession(c.Session()), rd)
		if err != nil {
			return err
		}
		cmd.Printf("Interview complete: %.1f/10 (%s). Report: %s\n", res.FinalScore, res.Tier, path)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "line mode instead of the TUI")
	runCmd.Flags().StringVar(&runFormat, "format", "", "report format: markdown or json (default from config)")
	runCmd.Flags().DurationVar(&runTick, "tick", time.Second, "wall time of one countdown second")
	_ = runCmd.Flags().MarkHidden("tick")
	rootCmd.AddCommand(runCmd)
}
