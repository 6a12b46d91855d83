package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/report"
	"github.com/fakeyudi/screener/internal/tui"
)

var (
	plainOutput bool
	showFormat  string
)

var showCmd = &cobra.Command{
	Use:   "show <id|file>",
	Short: "View the report of a session or a saved report file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, name, err := loadReport(args[0])
		if err != nil {
			return err
		}

		if showFormat != "" {
			rd, err := report.RendererFor(showFormat)
			if err != nil {
				return err
			}
			data, err := rd.Render(r)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			printReport(cmd.OutOrStdout(), r)
			return nil
		}
		return tui.Run(r, name)
	},
}

// loadReport reads a report file when arg names one, otherwise builds the
// report of the stored session arg.
func loadReport(arg string) (*report.Report, string, error) {
	if data, err := os.ReadFile(arg); err == nil {
		r, err := report.ParserFor(arg).Parse(data)
		return r, arg, err
	} else if !os.IsNotExist(err) {
		return nil, "", err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return nil, "", err
	}
	defer closeStore()
	s, err := findSession(store, arg)
	if err != nil {
		return nil, "", fmt.Errorf("%w (and no file named %s)", err, arg)
	}
	r := report.FromSession(s)
	return r, report.FileName(r, ""), nil
}

// printReport writes a plain-text rendition of r.
func printReport(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, "## Candidate")
	fmt.Fprintf(w, "  Name:      %s\n", r.Candidate.Name)
	fmt.Fprintf(w, "  Email:     %s\n", r.Candidate.Email)
	fmt.Fprintf(w, "  Phone:     %s\n", r.Candidate.Phone)
	if r.Candidate.ResumeFile != "" {
		fmt.Fprintf(w, "  Resume:    %s\n", r.Candidate.ResumeFile)
	}
	fmt.Fprintf(w, "  Status:    %s\n", r.Status)
	fmt.Fprintf(w, "  Started:   %s\n", r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if r.Duration != "" {
		fmt.Fprintf(w, "  Duration:  %s\n", r.Duration)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Result")
	if r.FinalScore == nil {
		fmt.Fprintln(w, "  (interview not completed)")
	} else {
		fmt.Fprintf(w, "  Score:     %.1f/10 (%s)\n", *r.FinalScore, r.Tier)
		for _, d := range question.Order {
			if m, ok := r.Means[string(d)]; ok {
				fmt.Fprintf(w, "  %-9s  %.1f/10\n", string(d)+":", m)
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Questions")
	if len(r.Questions) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range r.Questions {
		score := "-"
		if e.Score != nil {
			score = fmt.Sprintf("%.1f", *e.Score)
		}
		fmt.Fprintf(w, "  %d. [%s] %s  (score %s)\n", e.Index, e.Difficulty, e.Prompt, score)
		if e.Answer != nil {
			fmt.Fprintln(w, indent(*e.Answer, "       "))
		}
		if e.Feedback != nil {
			fmt.Fprintf(w, "       Feedback: %s\n", *e.Feedback)
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func init() {
	showCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	showCmd.Flags().StringVar(&showFormat, "format", "", "print the report as markdown or json")
	rootCmd.AddCommand(showCmd)
}
