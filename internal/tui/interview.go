package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fakeyudi/screener/internal/aggregate"
	"github.com/fakeyudi/screener/internal/evaluate"
	"github.com/fakeyudi/screener/internal/interview"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
)

// ErrInterrupted is returned by RunInterview when the candidate quits before
// the last question. The session is saved and can be resumed.
var ErrInterrupted = errors.New("interview interrupted")

type phase int

const (
	phaseStarting phase = iota
	phaseAnswering
	phaseEvaluating
	phaseFailed
	phaseDone
)

// resumeMsg asks the model to pick the session up from its saved state.
type resumeMsg struct{}

// tickMsg is one countdown second for questionID. Ticks for any other
// question are dropped.
type tickMsg struct{ questionID string }

// evalMsg carries an evaluator result back to the update loop.
type evalMsg struct {
	questionID string
	res        evaluate.Result
	err        error
}

// Interview is the Bubble Tea model that runs a session. Update is the only
// place the session is mutated; evaluation runs as a command and reports
// back with an evalMsg.
type Interview struct {
	ctx      context.Context
	c        *interview.Conductor
	interval time.Duration

	input textarea.Model
	bar   progress.Model
	spin  spinner.Model

	phase   phase
	notice  string
	evalErr error
	err     error
	final   *aggregate.Result
	width   int
}

// InterviewOption configures an Interview.
type InterviewOption func(*Interview)

// WithTickInterval sets the wall time of one countdown second.
func WithTickInterval(d time.Duration) InterviewOption {
	return func(m *Interview) { m.interval = d }
}

// NewInterview returns the interview model for the session driven by c.
func NewInterview(ctx context.Context, c *interview.Conductor, opts ...InterviewOption) Interview {
	ta := textarea.New()
	ta.Placeholder = "Type your answer…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Interview{
		ctx:      ctx,
		c:        c,
		interval: time.Second,
		input:    ta,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spin:     sp,
		width:    80,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

func (m Interview) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, func() tea.Msg { return resumeMsg{} })
}

func (m Interview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resumeMsg:
		return m, m.step()

	case tickMsg:
		return m, m.tick(msg)

	case evalMsg:
		return m, m.evaluated(msg)

	case spinner.TickMsg:
		if m.phase != phaseEvaluating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-4, 10))
		m.bar.Width = max(msg.Width-16, 10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseAnswering:
			if msg.Type == tea.KeyCtrlS {
				return m, m.submit()
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		case phaseFailed:
			switch msg.String() {
			case "r":
				return m, m.step()
			case "a":
				return m, m.abandon()
			}
		case phaseDone:
			switch msg.String() {
			case "q", "enter", "esc":
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// step moves the session forward from whatever state it is in.
func (m *Interview) step() tea.Cmd {
	s := m.c.Session()
	if s.Status == session.StatusCompleted {
		res, err := aggregate.Aggregate(s.Questions)
		if err != nil {
			return m.fail(err)
		}
		m.final, m.phase = &res, phaseDone
		return nil
	}
	if s.AwaitingCompletion {
		res, err := m.c.Finish()
		if err != nil {
			return m.fail(err)
		}
		m.final, m.phase = &res, phaseDone
		return nil
	}
	if q, ok := m.c.Pending(); ok {
		m.phase, m.evalErr = phaseEvaluating, nil
		return tea.Batch(m.spin.Tick, m.evaluate(q))
	}
	if s.TimedOut() {
		if err := m.c.SubmitTimeout(m.input.Value()); err != nil {
			return m.fail(err)
		}
		m.notice = "Time's up. " + m.notice
		return m.step()
	}
	if err := m.c.Activate(); err != nil {
		return m.fail(err)
	}
	q, _ := s.Current()
	m.phase = phaseAnswering
	m.input.Reset()
	m.input.Focus()
	return m.nextTick(q.ID)
}

func (m *Interview) fail(err error) tea.Cmd {
	m.err = err
	return tea.Quit
}

func (m *Interview) nextTick(questionID string) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{questionID: questionID} })
}

func (m *Interview) tick(msg tickMsg) tea.Cmd {
	q, ok := m.c.Session().Current()
	if m.phase != phaseAnswering || !ok || q.ID != msg.questionID || !m.c.Session().TimerActive() {
		return nil
	}
	rem, err := m.c.Tick()
	if err != nil {
		return m.fail(err)
	}
	if rem == 0 {
		m.notice = ""
		return m.step()
	}
	return m.nextTick(q.ID)
}

func (m *Interview) submit() tea.Cmd {
	m.notice = ""
	if err := m.c.Submit(m.input.Value(), m.c.Elapsed()); err != nil {
		return m.fail(err)
	}
	m.input.Blur()
	return m.step()
}

func (m *Interview) evaluate(q question.Question) tea.Cmd {
	ctx, c := m.ctx, m.c
	return func() tea.Msg {
		res, err := c.Evaluate(ctx, q)
		return evalMsg{questionID: q.ID, res: res, err: err}
	}
}

func (m *Interview) evaluated(msg evalMsg) tea.Cmd {
	if m.phase != phaseEvaluating {
		return nil
	}
	if msg.err != nil {
		m.c.Failed(msg.questionID, msg.err)
		m.phase, m.evalErr = phaseFailed, msg.err
		return nil
	}
	index := m.c.Session().Cursor + 1
	out, err := m.c.Apply(msg.questionID, msg.res)
	if errors.Is(err, session.ErrInvalidState) {
		// result for a question that is no longer current
		return m.step()
	}
	if err != nil {
		return m.fail(err)
	}
	m.notice = fmt.Sprintf("Question %d: %.1f/10. %s", index, msg.res.Score, msg.res.Feedback)
	if out.Done() {
		m.final, m.phase = out.Final, phaseDone
		return nil
	}
	return m.step()
}

func (m *Interview) abandon() tea.Cmd {
	index := m.c.Session().Cursor + 1
	out, err := m.c.Abandon()
	if err != nil {
		return m.fail(err)
	}
	m.notice = fmt.Sprintf("Question %d: %s Scored 0.", index, session.AbandonedFeedback)
	if out.Done() {
		m.final, m.phase = out.Final, phaseDone
		return nil
	}
	return m.step()
}

func (m Interview) View() string {
	s := m.c.Session()
	title := titleStyle.Width(m.width).Render("  screener  " + s.Name)

	var body strings.Builder
	switch m.phase {
	case phaseStarting:
		body.WriteString("\n  Loading…\n")
	case phaseDone:
		body.WriteString(heading("Interview complete"))
		if m.final != nil {
			body.WriteString(indent(m.final.Summary, "  ") + "\n")
		}
	default:
		m.renderQuestion(&body)
	}
	if m.notice != "" {
		body.WriteString("\n  " + dimStyle.Render(m.notice) + "\n")
	}

	var hint string
	switch m.phase {
	case phaseAnswering:
		hint = "  ctrl+s submit  ctrl+c quit (resume later)"
	case phaseEvaluating:
		hint = "  evaluating…  ctrl+c quit (resume later)"
	case phaseFailed:
		hint = "  r retry  a abandon (score 0)  ctrl+c quit"
	case phaseDone:
		hint = "  q quit"
	}
	p := s.Progress()
	right := fmt.Sprintf("%d/%d scored", p.Scored, p.Total)
	pad := max(m.width-lipgloss.Width(hint)-len(right)-2, 1)
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + right)

	return lipgloss.JoinVertical(lipgloss.Left, title, body.String(), statusBar)
}

func (m Interview) renderQuestion(sb *strings.Builder) {
	s := m.c.Session()
	q, ok := s.Current()
	if !ok {
		return
	}
	sb.WriteString(heading(fmt.Sprintf("Question %d/%d %s", s.Cursor+1, len(s.Questions), difficultyBadge(q.Difficulty))))
	sb.WriteString(indent(q.Prompt, "  ") + "\n\n")

	switch m.phase {
	case phaseAnswering:
		rem := s.Remaining()
		frac := 0.0
		if q.TimeLimit > 0 {
			frac = float64(rem) / float64(q.TimeLimit)
		}
		clock := timeStyle.Render(fmt.Sprintf("%4ds", rem))
		if rem <= 10 {
			clock = errorStyle.Render(fmt.Sprintf("%4ds", rem))
		}
		sb.WriteString("  " + m.bar.ViewAs(frac) + "  " + clock + "\n\n")
		sb.WriteString(indent(m.input.View(), "  ") + "\n")
	case phaseEvaluating:
		sb.WriteString("  " + m.spin.View() + " Evaluating answer…\n")
	case phaseFailed:
		sb.WriteString("  " + errorStyle.Render("Evaluation failed: ") + m.evalErr.Error() + "\n")
	}
}

// RunInterview runs the interview screen until the session completes or the
// candidate quits. Quitting early returns ErrInterrupted with the session
// saved where it stopped.
func RunInterview(ctx context.Context, c *interview.Conductor, opts ...InterviewOption) (*aggregate.Result, error) {
	p := tea.NewProgram(NewInterview(ctx, c, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	fm, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := fm.(Interview)
	if m.err != nil {
		return nil, m.err
	}
	if m.final == nil {
		return nil, ErrInterrupted
	}
	return m.final, nil
}
