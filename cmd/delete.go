package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/eventlog"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored session",
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
		if err := store.Delete(s.ID); err != nil {
			return err
		}
		if log, err := openLogger(); err == nil {
			_ = log.Append(eventlog.Event{Event: eventlog.EventSessionDeleted, SessionID: s.ID})
		}

		cmd.Printf("Session %s (%s) deleted.\n", s.ID, s.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
