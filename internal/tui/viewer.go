package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/report"
)

type tabID int

const (
	tabSummary tabID = iota
	tabQuestions
	tabRanking
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Questions", "Ranking"}

// Viewer is the Bubble Tea model for browsing an interview report.
type Viewer struct {
	report    *report.Report
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	// Ranking tab order
	sortAsc   bool
	// Questions tab: cursor position and expanded set
	cursor    int
	expanded  map[int]bool
}

// NewViewer creates a viewer for r. filename is shown in the title bar.
func NewViewer(r *report.Report, filename string) Viewer {
	return Viewer{
		report:   r,
		filename: filepath.Base(filename),
		expanded: make(map[int]bool),
	}
}

func (m Viewer) Init() tea.Cmd { return nil }

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabRanking {
				m.sortAsc = !m.sortAsc
				m.refresh(tabRanking)
				m.viewports[tabRanking].GotoTop()
			}
		case "up", "k":
			if m.activeTab == tabQuestions && m.cursor > 0 {
				m.cursor--
				m.refresh(tabQuestions)
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabQuestions && m.cursor < len(m.report.Questions)-1 {
				m.cursor++
				m.refresh(tabQuestions)
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabQuestions && len(m.report.Questions) > 0 {
				if m.expanded[m.cursor] {
					delete(m.expanded, m.cursor)
				} else {
					m.expanded[m.cursor] = true
				}
				m.refresh(tabQuestions)
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Viewer) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  screener  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  q quit"
	switch m.activeTab {
	case tabRanking:
		dir := "best first"
		if m.sortAsc {
			dir = "worst first"
		}
		hint += "  s sort (" + dir + ")"
	case tabQuestions:
		hint += "  ↑/↓ select  enter expand/collapse"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := max(m.width-lipgloss.Width(hint)-len(pct)-2, 1)
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

func (m *Viewer) initViewports() {
	// title, tab row and status bar take one row each
	vpHeight := max(m.height-3, 1)
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Viewer) refresh(t tabID) {
	m.viewports[t].SetContent(m.renderTab(t))
}

func (m *Viewer) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabQuestions:
		return m.renderQuestions()
	case tabRanking:
		return m.renderRanking()
	}
	return ""
}

func (m *Viewer) renderSummary() string {
	r := m.report
	var sb strings.Builder
	sb.WriteString(heading("Candidate"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Name:", r.Candidate.Name)
	row("Email:", r.Candidate.Email)
	row("Phone:", r.Candidate.Phone)
	if r.Candidate.ResumeFile != "" {
		row("Resume:", r.Candidate.ResumeFile)
	}
	row("Session:", r.Candidate.SessionID)

	sb.WriteString(heading("Interview"))
	row("Status:", string(r.Status))
	row("Started:", r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if r.CompletedAt != nil {
		row("Completed:", r.CompletedAt.Format("2006-01-02 15:04:05 MST"))
		row("Duration:", r.Duration)
	}

	if r.FinalScore == nil {
		sb.WriteString("\n" + dimStyle.Render("  (interview not completed)") + "\n")
		return sb.String()
	}
	sb.WriteString(heading("Result"))
	row("Score:", scoreStyle(*r.FinalScore).Render(fmt.Sprintf("%.1f/10", *r.FinalScore)))
	row("Tier:", r.Tier)
	for _, d := range question.Order {
		if mean, ok := r.Means[string(d)]; ok {
			row(string(d)+":", fmt.Sprintf("%.1f/10", mean))
		}
	}
	return sb.String()
}

func (m *Viewer) renderQuestions() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Questions (%d)", len(m.report.Questions))))
	if len(m.report.Questions) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for i, e := range m.report.Questions {
		toggle := dimStyle.Render("  ▶ ")
		if m.expanded[i] {
			toggle = dimStyle.Render("  ▼ ")
		}
		score := dimStyle.Render("  -  ")
		if e.Score != nil {
			score = scoreStyle(*e.Score).Render(fmt.Sprintf("%4.1f", *e.Score))
		}
		row := fmt.Sprintf("%s%2d. %s %s  %s", toggle, e.Index, score, difficultyBadge(e.Difficulty), e.Prompt)
		if i == m.cursor {
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n")
		if m.expanded[i] {
			sb.WriteString(renderEntry(e, m.width))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderEntry(e report.Entry, width int) string {
	var sb strings.Builder
	border := dimStyle.Render("  " + strings.Repeat("─", max(width-4, 1)))
	sb.WriteString(border + "\n")
	spent := "-"
	if e.TimeSpent != nil {
		spent = fmt.Sprintf("%ds", *e.TimeSpent)
	}
	sb.WriteString(timeStyle.Render(fmt.Sprintf("    time %s of %ds", spent, e.TimeLimit)) + "\n\n")
	if e.Answer != nil {
		sb.WriteString(indent(*e.Answer, "    ") + "\n")
	} else {
		sb.WriteString(dimStyle.Render("    (not answered)") + "\n")
	}
	if e.Feedback != nil {
		sb.WriteString("\n" + labelStyle.Render("    Feedback: ") + *e.Feedback + "\n")
	}
	sb.WriteString(border + "\n")
	return sb.String()
}

func (m *Viewer) renderRanking() string {
	var sb strings.Builder
	dir := "best first"
	if m.sortAsc {
		dir = "worst first"
	}
	sb.WriteString(heading(fmt.Sprintf("Ranking (%s)", dir)))

	var scored []report.Entry
	for _, e := range m.report.Questions {
		if e.Score != nil {
			scored = append(scored, e)
		}
	}
	if len(scored) == 0 {
		sb.WriteString(dimStyle.Render("  (no scored answers yet)") + "\n")
		return sb.String()
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if m.sortAsc {
			return *scored[i].Score < *scored[j].Score
		}
		return *scored[i].Score > *scored[j].Score
	})
	for _, e := range scored {
		bar := strings.Repeat("█", int(*e.Score+0.5)) + strings.Repeat("░", 10-int(*e.Score+0.5))
		sb.WriteString(fmt.Sprintf("  %s %s  %2d. %s\n\n",
			scoreStyle(*e.Score).Render(bar), difficultyBadge(e.Difficulty), e.Index, e.Prompt))
	}
	return sb.String()
}

// Run starts the report viewer.
func Run(r *report.Report, filename string) error {
	p := tea.NewProgram(NewViewer(r, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
