// internal/output/markdown.go
package output

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter outputs RunResult as human-readable Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the RunResult as Markdown.
func (f *MarkdownFormatter) Format(result *RunResult) ([]byte, error) {
	var b strings.Builder

	if result.Error != "" {
		b.WriteString("## Error\n\n")
		b.WriteString(result.Error)
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	fmt.Fprintf(&b, "## %s\n\n", result.Project)
	fmt.Fprintf(&b, "- **Source:** `%s`\n", result.Root)
	fmt.Fprintf(&b, "- **Model:** %s\n", result.Model)

	fileLabel := "files"
	if result.FileCount == 1 {
		fileLabel = "file"
	}
	fmt.Fprintf(&b, "- **Analyzed:** %d %s (%d failed)\n", result.FileCount, fileLabel, len(result.FailedFiles))
	if result.ReadmeFailed {
		b.WriteString("- **README:** generation failed, error report written\n")
	}

	if len(result.Written) > 0 {
		b.WriteString("\n### Written\n\n")
		for _, path := range result.Written {
			fmt.Fprintf(&b, "- `%s`\n", path)
		}
	}

	if len(result.FailedFiles) > 0 {
		b.WriteString("\n### Failed Analyses\n\n")
		for i, ff := range result.FailedFiles {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, ff.Path, ff.Error)
		}
	}

	reqLabel := "requests"
	if result.Usage.Requests == 1 {
		reqLabel = "request"
	}
	fmt.Fprintf(&b, "\n---\n*Completed in %s, %d %s, %d input / %d output tokens*\n",
		result.Duration().Round(100*time.Millisecond), result.Usage.Requests, reqLabel,
		result.Usage.InputTokens, result.Usage.OutputTokens)

	return []byte(b.String()), nil
}
