package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show where a session stands",
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

		p := s.Progress()
		cmd.Printf("Candidate: %s <%s> %s\n", s.Name, s.Email, s.Phone)
		cmd.Printf("Status: %s\n", s.Status)
		cmd.Printf("Created: %s\n", s.CreatedAt.Format(time.RFC3339))
		if s.Status == session.StatusInProgress {
			cmd.Printf("Question: %d of %d\n", s.Cursor+1, len(s.Questions))
			if s.TimerActive() {
				cmd.Printf("Time left: %ds\n", s.Remaining())
			}
			if s.AwaitingCompletion {
				cmd.Println("All questions scored; waiting to complete")
			}
		}
		cmd.Printf("Answered: %d\n", p.Answered)
		cmd.Printf("Scored: %d\n", p.Scored)
		if s.FinalScore != nil {
			cmd.Printf("Final score: %.1f/10\n", *s.FinalScore)
		}
		if s.CompletedAt != nil {
			cmd.Printf("Completed: %s\n", s.CompletedAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
