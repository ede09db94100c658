// internal/output/formatter.go
package output

import (
	"time"

	"github.com/julianshen/autodocs/internal/docgen"
	"github.com/julianshen/autodocs/internal/integrations"
)

// RunResult is the end-of-run summary of a documentation run.
type RunResult struct {
	RunID        string             `json:"run_id"`
	Project      string             `json:"project"`
	Root         string             `json:"root"`
	OutputDir    string             `json:"output_dir,omitempty"`
	Model        string             `json:"model"`
	FileCount    int                `json:"file_count"`
	FailedFiles  []FailedFile       `json:"failed_files,omitempty"`
	ReadmeFailed bool               `json:"readme_failed,omitempty"`
	Written      []string           `json:"written,omitempty"`
	DurationMs   int64              `json:"duration_ms"`
	Usage        integrations.Usage `json:"usage"`
	Error        string             `json:"error,omitempty"`
}

// FailedFile records a file whose analysis fell back to the placeholder.
type FailedFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Duration returns DurationMs as a time.Duration.
func (r *RunResult) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// NewRunResult summarizes a finished run. report may be nil when the run
// failed before producing one; runErr is then recorded in Error.
func NewRunResult(report *docgen.RunReport, model string, usage integrations.Usage, runErr error) *RunResult {
	r := &RunResult{Model: model, Usage: usage}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	if report == nil {
		return r
	}

	r.RunID = report.RunID
	r.Project = report.Project
	r.Root = report.Root
	r.OutputDir = report.OutputDir
	r.FileCount = len(report.Files)
	r.ReadmeFailed = report.ReadmeFailed
	r.Written = report.Written
	r.DurationMs = report.Duration.Milliseconds()
	for _, f := range report.Files {
		if f.Failed() {
			r.FailedFiles = append(r.FailedFiles, FailedFile{Path: f.Path, Error: f.Err.Error()})
		}
	}
	return r
}

// Formatter formats a RunResult into output bytes.
type Formatter interface {
	Format(result *RunResult) ([]byte, error)
}

// NewFormatter returns the formatter for name ("json" or "markdown").
func NewFormatter(name string) (Formatter, bool) {
	switch name {
	case "json":
		return NewJSONFormatter(), true
	case "markdown", "md":
		return NewMarkdownFormatter(), true
	default:
		return nil, false
	}
}
