package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/eventlog"
	"github.com/fakeyudi/screener/internal/intake"
	"github.com/fakeyudi/screener/internal/interview"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/resume"
	"github.com/fakeyudi/screener/internal/session"
)

var (
	newResume string
	newName   string
	newEmail  string
	newPhone  string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Register a candidate and prepare an interview",
	Long: `Register a candidate from a resume (PDF or DOCX) and/or flags, ask for any
missing contact details, draw the questions and start the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := session.New(uuid.New().String())

		if newResume != "" {
			data, err := resume.ExtractFile(newResume)
			if err != nil {
				return fmt.Errorf("reading resume: %w", err)
			}
			s.ResumeFileName = filepath.Base(newResume)
			s.ResumeText = data.Text
			if err := s.SetContact(data.Name, data.Email, data.Phone); err != nil {
				return err
			}
			cmd.Printf("Resume %s: name %q, email %q, phone %q\n",
				s.ResumeFileName, data.Name, data.Email, data.Phone)
		}

		if newEmail != "" && !intake.ValidEmail(newEmail) {
			return fmt.Errorf("invalid email %q", newEmail)
		}
		if newPhone != "" && !intake.ValidPhone(newPhone) {
			return fmt.Errorf("invalid phone %q", newPhone)
		}
		if err := s.SetContact(intake.NormalizeName(newName), newEmail, newPhone); err != nil {
			return err
		}

		p := intake.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		if err := intake.CollectContact(p, s); err != nil {
			return fmt.Errorf("collecting contact details: %w", err)
		}

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		plan, err := cfg.QuestionPlan()
		if err != nil {
			return err
		}
		qs, err := question.NewBank(catalog).Draw(plan)
		if err != nil {
			return err
		}
		if err := s.AttachQuestions(qs); err != nil {
			return err
		}

		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		log, err := openLogger()
		if err != nil {
			return err
		}

		if err := store.Save(s); err != nil {
			return err
		}
		_ = log.Append(eventlog.Event{Event: eventlog.EventSessionCreated, SessionID: s.ID})

		if err := interview.New(s, store, nil, interview.WithLogger(log)).Start(); err != nil {
			return err
		}

		cmd.Printf("Session %s ready for %s (%d questions).\n", s.ID, s.Name, len(s.Questions))
		cmd.Printf("Start the interview with: screener run %s\n", s.ID)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newResume, "resume", "", "candidate resume (.pdf or .docx)")
	newCmd.Flags().StringVar(&newName, "name", "", "candidate name (overrides the resume)")
	newCmd.Flags().StringVar(&newEmail, "email", "", "candidate email (overrides the resume)")
	newCmd.Flags().StringVar(&newPhone, "phone", "", "candidate phone (overrides the resume)")
	rootCmd.AddCommand(newCmd)
}
