package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing job artifacts
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// WriteAll writes the artifact formats enabled in config.
func (w *ArtifactWriter) WriteAll(summary *Summary, config ArtifactConfig) error {
	if !config.Enabled {
		return nil
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if config.JSON {
		if err := w.WriteSummaryJSON(summary); err != nil {
			return err
		}
	}

	if config.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return err
		}
	}

	return nil
}

// WriteSummaryJSON writes the full summary as summary.json.
func (w *ArtifactWriter) WriteSummaryJSON(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable summary.md.
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Overlay Removal Summary\n\n")
	md.WriteString(fmt.Sprintf("**Run:** %s\n\n", summary.RunID))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Millisecond)))

	md.WriteString("## Totals\n\n")
	md.WriteString(fmt.Sprintf("- **Targets:** %d\n", summary.Totals.Targets))
	md.WriteString(fmt.Sprintf("- **Done:** %d\n", summary.Totals.Done))
	md.WriteString(fmt.Sprintf("- **Skipped:** %d\n", summary.Totals.Skipped))
	md.WriteString(fmt.Sprintf("- **Failed:** %d\n", summary.Totals.Failed))
	md.WriteString(fmt.Sprintf("- **Elements hidden:** %d\n", summary.Totals.Hidden))
	md.WriteString(fmt.Sprintf("- **No overlay found:** %d\n\n", summary.Totals.Alerted))

	if len(summary.Results) > 0 {
		md.WriteString("## Targets\n\n")
	}
	for _, result := range summary.Results {
		md.WriteString(fmt.Sprintf("### %s %s\n\n", statusMark(result.Status), result.Name))
		md.WriteString(fmt.Sprintf("- Source: `%s`\n", result.Source))
		if result.Title != "" {
			md.WriteString(fmt.Sprintf("- Title: %s\n", result.Title))
		}
		if result.Backend != "" {
			md.WriteString(fmt.Sprintf("- Backend: %s\n", result.Backend))
		}
		if result.Error != "" {
			md.WriteString(fmt.Sprintf("- Error: %s\n", result.Error))
		}
		if result.Status == StatusDone {
			md.WriteString(fmt.Sprintf("- Passes: %d\n", result.Report.Iterations))
		}
		for _, alert := range result.Alerts {
			md.WriteString(fmt.Sprintf("- Alert: %s\n", alert))
		}
		for _, label := range result.Report.RelaxedOverflow {
			md.WriteString(fmt.Sprintf("- Scrolling restored on `%s`\n", label))
		}
		if result.Screenshot != "" {
			md.WriteString(fmt.Sprintf("- Screenshot: `%s`\n", result.Screenshot))
		}

		if len(result.Report.Steps) > 0 {
			md.WriteString("\n| Pass | Element | Decision | Weight |\n")
			md.WriteString("|------|---------|----------|--------|\n")
			for _, step := range result.Report.Steps {
				weight := "-"
				if step.Weight != nil {
					weight = fmt.Sprintf("%d", *step.Weight)
				}
				md.WriteString(fmt.Sprintf("| %d | `%s` | %s | %s |\n", step.Iteration, step.Candidate, step.Decision, weight))
			}
		}
		md.WriteString("\n")
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

func statusMark(status Status) string {
	switch status {
	case StatusDone:
		return "✅"
	case StatusSkipped:
		return "⏭️"
	default:
		return "❌"
	}
}
