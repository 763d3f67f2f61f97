package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plancraft/tgimport/internal/importer"
)

var (
	specialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF99")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0055")).Bold(true)
)

// StartedMsg announces the command about to run.
type StartedMsg struct {
	Address string
}

// ResultMsg carries one finished import.
type ResultMsg struct {
	Result importer.Result
}

// DoneMsg ends the program.
type DoneMsg struct{}

// ProgressModel renders a live view of a sequential import run. Feed
// it with Program.Send from the executor goroutine.
type ProgressModel struct {
	spinner  spinner.Model
	progress progress.Model

	total   int
	done    int
	current string
	lines   []string
	quit    bool
}

func NewProgressModel(total int) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = specialStyle

	prog := progress.New(progress.WithGradient("#00FF99", "#00CCFF"))

	return ProgressModel{spinner: s, progress: prog, total: total}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
	case StartedMsg:
		m.current = msg.Address
		return m, nil
	case ResultMsg:
		m.done++
		m.lines = append(m.lines, resultLine(msg.Result))
		return m, nil
	case DoneMsg:
		m.quit = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	b.WriteString(specialStyle.Render("Importing resources"))
	b.WriteString("\n\n")
	for _, line := range m.lines {
		b.WriteString(line + "\n")
	}
	if m.current != "" && m.done < m.total {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.current))
	}
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.done) / float64(m.total)
	}
	b.WriteString("\n" + m.progress.ViewAs(ratio) + "\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)) + "\n")
	return b.String()
}

func resultLine(r importer.Result) string {
	switch r.Outcome {
	case importer.Success:
		return specialStyle.Render("  ok   ") + r.Address
	case importer.AlreadyInState:
		return subtleStyle.Render("  have ") + r.Address
	case importer.Failed:
		return failStyle.Render("  fail ") + r.Address
	case importer.DryRun:
		return subtleStyle.Render("  dry  ") + r.Address
	default:
		return subtleStyle.Render("  skip ") + r.Address
	}
}
