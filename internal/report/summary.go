package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plancraft/tgimport/internal/importer"
)

var (
	colorSuccess = lipgloss.Color("#00FF99")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#FF0055")
	colorSubtle  = lipgloss.Color("#64748B")
	colorAccent  = lipgloss.Color("#874BFD")

	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 2)
)

// Render produces the styled terminal summary for a run.
func Render(results []importer.Result) string {
	stats := Collect(results)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Import Summary"))
	b.WriteString("\n")

	lines := []string{
		fmt.Sprintf("%s %d", successStyle.Render("imported"), stats.Imported),
		fmt.Sprintf("%s %d", subtleStyle.Render("already in state"), stats.AlreadyInState),
		fmt.Sprintf("%s %d", warnStyle.Render("skipped"), stats.Skipped),
		fmt.Sprintf("%s %d", dangerStyle.Render("failed"), stats.Failed),
	}
	if stats.DryRun > 0 {
		lines = append(lines, fmt.Sprintf("%s %d", subtleStyle.Render("dry run"), stats.DryRun))
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	for _, r := range results {
		switch r.Outcome {
		case importer.Skipped:
			b.WriteString(warnStyle.Render("  skip ") + r.Address + subtleStyle.Render(" ("+r.Reason+")") + "\n")
		case importer.Failed:
			b.WriteString(dangerStyle.Render("  fail ") + r.Address)
			if r.Err != nil {
				b.WriteString(subtleStyle.Render(" (" + r.Err.Error() + ")"))
			}
			b.WriteString("\n")
		case importer.DryRun:
			b.WriteString(subtleStyle.Render("  "+r.Command) + "\n")
		}
	}
	return b.String()
}

// jsonResult is the machine-readable per-resource record.
type jsonResult struct {
	Address string `json:"address"`
	Outcome string `json:"outcome"`
	ID      string `json:"id,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
	Command string `json:"command,omitempty"`
}

type jsonSummary struct {
	Imported       int          `json:"imported"`
	AlreadyInState int          `json:"already_in_state"`
	Skipped        int          `json:"skipped"`
	Failed         int          `json:"failed"`
	DryRun         int          `json:"dry_run,omitempty"`
	Total          int          `json:"total"`
	Results        []jsonResult `json:"results"`
}

// RenderJSON produces the machine summary for --json runs.
func RenderJSON(results []importer.Result) ([]byte, error) {
	stats := Collect(results)
	out := jsonSummary{
		Imported:       stats.Imported,
		AlreadyInState: stats.AlreadyInState,
		Skipped:        stats.Skipped,
		Failed:         stats.Failed,
		DryRun:         stats.DryRun,
		Total:          stats.TotalProcessed(),
		Results:        make([]jsonResult, 0, len(results)),
	}
	for _, r := range results {
		jr := jsonResult{
			Address: r.Address,
			Outcome: r.Outcome.String(),
			ID:      r.ID,
			Reason:  r.Reason,
			Command: r.Command,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
