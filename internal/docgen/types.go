package docgen

import (
	"context"

	"github.com/julianshen/autodocs/internal/provider"
)

// SourceFile is one scanned file: its slash-separated path relative to the
// scan root and its text content.
type SourceFile struct {
	Path    string
	Content string
}

// FileMap is the scanner's output in traversal order. Paths are unique.
type FileMap []SourceFile

// Paths returns the relative paths in order.
func (m FileMap) Paths() []string {
	paths := make([]string, len(m))
	for i, f := range m {
		paths[i] = f.Path
	}
	return paths
}

// CodeElement describes a class, function or variable found in a file.
type CodeElement struct {
	Name        string   `json:"name"`
	Kind        string   `json:"type"` // class, function or variable
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Outputs     string   `json:"outputs"`
}

// FileAnalysis is the structured result of analyzing one source file.
type FileAnalysis struct {
	Summary        string        `json:"summary"`
	Dependencies   []string      `json:"dependencies"`
	Elements       []CodeElement `json:"elements"`
	TechnicalNotes string        `json:"technical_notes,omitempty"`
}

// AnalyzedFile pairs a path with its analysis. Err is set when the analysis
// is the failure placeholder.
type AnalyzedFile struct {
	Path     string
	Analysis FileAnalysis
	Err      error
}

// Failed reports whether the analysis is the failure placeholder.
func (f AnalyzedFile) Failed() bool { return f.Err != nil }

// ProjectResult is the outcome of ProcessProject. Context and Pages hold one
// entry per analyzed file in input order.
type ProjectResult struct {
	Files   []AnalyzedFile
	Context []string
	Pages   []string
}

// FailedCount returns how many files fell back to the failure placeholder.
func (r *ProjectResult) FailedCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// Document represents a single output file.
type Document struct {
	Path    string
	Title   string
	Content string
}

// LLMCompleter abstracts LLM completion for testability.
type LLMCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteStructured(ctx context.Context, system, user string, format *provider.ResponseFormat, out any) error
}

// ProgressFunc is called after each file is analyzed. done counts finished
// files, including the one named by path.
type ProgressFunc func(done, total int, path string)
