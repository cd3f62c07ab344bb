package batch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // Soft pastel salmon pink - primary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // Soft mint green - success states
	mutedGray   = lipgloss.Color("#6B7280") // Muted gray - secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // Bright white - primary text
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	doneStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	nameStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// RenderSummary formats a job summary for the terminal.
func RenderSummary(summary *Summary) string {
	var lines []string
	lines = append(lines, titleStyle.Render("unoverlay")+" "+subtleStyle.Render(summary.RunID))

	for _, result := range summary.Results {
		lines = append(lines, renderResult(result))
	}

	totals := fmt.Sprintf("%d targets · %d done · %d skipped · %d failed · %d hidden · %s",
		summary.Totals.Targets,
		summary.Totals.Done,
		summary.Totals.Skipped,
		summary.Totals.Failed,
		summary.Totals.Hidden,
		summary.Duration.Round(time.Millisecond),
	)
	lines = append(lines, "", subtleStyle.Render(totals))

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderResult(result TargetResult) string {
	var status, detail string
	switch result.Status {
	case StatusDone:
		status = doneStyle.Render("✓")
		switch {
		case result.Report.Alerted:
			detail = "no overlay found"
		default:
			detail = fmt.Sprintf("%d hidden, %d kept", result.Report.Hidden(), result.Report.Kept())
		}
	case StatusSkipped:
		status = subtleStyle.Render("-")
		detail = "not allowed"
	default:
		status = failStyle.Render("✗")
		detail = result.Error
	}
	return fmt.Sprintf("%s %s %s", status, nameStyle.Render(result.Name), subtleStyle.Render(detail))
}

// WriteSummary writes RenderSummary output followed by a newline.
func WriteSummary(w io.Writer, summary *Summary) error {
	_, err := fmt.Fprintln(w, RenderSummary(summary))
	return err
}
