package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/session"
)

var (
	listSearch string
	listSort   string
	listOrder  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := session.ParseQuery(listSearch, listSort, listOrder)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		all, err := store.List()
		if err != nil {
			return err
		}
		list := q.Apply(all)
		if len(list) == 0 {
			cmd.Println("no sessions")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS\tSCORE\tPROGRESS\tCREATED")
		for _, s := range list {
			score := "-"
			if s.FinalScore != nil {
				score = fmt.Sprintf("%.1f", *s.FinalScore)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
				shortID(s.ID), s.Name, s.Email, s.Status, score, s.Answered, s.Total,
				s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "filter by name or email (case-insensitive)")
	listCmd.Flags().StringVar(&listSort, "sort", "date", "sort by name, score or date")
	listCmd.Flags().StringVar(&listOrder, "order", "desc", "asc or desc")
	rootCmd.AddCommand(listCmd)
}
