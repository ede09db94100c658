package docgen

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/julianshen/autodocs/internal/provider"
)

// DefaultMaxChars is the content budget sent per file.
const DefaultMaxChars = 15000

// AnalysisFailedSummary is the summary of the placeholder analysis.
const AnalysisFailedSummary = "Analysis Failed"

// fileAnalysisSchema constrains the analysis answer. Strict structured
// output requires every property to be listed as required, so the optional
// technical_notes is expressed as nullable.
var fileAnalysisSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string", "description": "A high-level summary of the file's purpose"},
    "dependencies": {
      "type": "array",
      "items": {"type": "string"},
      "description": "External libraries imported"
    },
    "elements": {
      "type": "array",
      "description": "Key classes/functions",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string", "description": "Name of the class or function"},
          "type": {"type": "string", "enum": ["class", "function", "variable"]},
          "description": {"type": "string", "description": "A technical summary of what this element does"},
          "inputs": {"type": "array", "items": {"type": "string"}, "description": "List of arguments/inputs"},
          "outputs": {"type": "string", "description": "Return type or description of output"}
        },
        "required": ["name", "type", "description", "inputs", "outputs"],
        "additionalProperties": false
      }
    },
    "technical_notes": {"type": ["string", "null"], "description": "Specific algorithms or warnings"}
  },
  "required": ["summary", "dependencies", "elements", "technical_notes"],
  "additionalProperties": false
}`)

// FileAnalysisFormat is the structured output format used for file analysis.
func FileAnalysisFormat() *provider.ResponseFormat {
	return &provider.ResponseFormat{
		Name:   "file_analysis",
		Schema: fileAnalysisSchema,
		Strict: true,
	}
}

// Analyzer turns one file's content into a FileAnalysis through the LLM.
type Analyzer struct {
	llm      LLMCompleter
	maxChars int
	logger   *zap.Logger
}

// NewAnalyzer creates an Analyzer. maxChars <= 0 means DefaultMaxChars.
func NewAnalyzer(llm LLMCompleter, maxChars int, logger *zap.Logger) *Analyzer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{llm: llm, maxChars: maxChars, logger: logger}
}

// Analyze sends the (truncated) content of path for structured analysis.
// Any failure comes back as *AnalysisError.
func (a *Analyzer) Analyze(ctx context.Context, path, content string) (FileAnalysis, error) {
	user, err := renderPrompt(analysisUserTmpl, struct {
		Filename string
		Content  string
	}{
		Filename: path,
		Content:  Truncate(content, a.maxChars),
	})
	if err != nil {
		return FileAnalysis{}, &AnalysisError{Path: path, Err: err}
	}

	var out struct {
		FileAnalysis
		TechnicalNotes *string `json:"technical_notes"`
	}
	if err := a.llm.CompleteStructured(ctx, analysisSystemPrompt, user, FileAnalysisFormat(), &out); err != nil {
		return FileAnalysis{}, &AnalysisError{Path: path, Err: err}
	}

	analysis := out.FileAnalysis
	if out.TechnicalNotes != nil {
		analysis.TechnicalNotes = *out.TechnicalNotes
	}
	return normalize(analysis), nil
}

// AnalyzeOrFallback is Analyze with the failure branch made explicit: on
// error it logs and returns FailedAnalysis alongside the error.
func (a *Analyzer) AnalyzeOrFallback(ctx context.Context, path, content string) (FileAnalysis, error) {
	analysis, err := a.Analyze(ctx, path, content)
	if err != nil {
		a.logger.Warn("analysis failed", zap.String("path", path), zap.Error(err))
		return FailedAnalysis(err), err
	}
	return analysis, nil
}

// FailedAnalysis is the placeholder used when a file could not be analyzed.
func FailedAnalysis(err error) FileAnalysis {
	notes := "Error: unknown error"
	if err != nil {
		notes = "Error: " + err.Error()
	}
	return FileAnalysis{
		Summary:        AnalysisFailedSummary,
		Dependencies:   []string{},
		Elements:       []CodeElement{},
		TechnicalNotes: notes,
	}
}

// Truncate keeps the first max characters of s. It never splits a rune.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func normalize(a FileAnalysis) FileAnalysis {
	if a.Dependencies == nil {
		a.Dependencies = []string{}
	}
	if a.Elements == nil {
		a.Elements = []CodeElement{}
	}
	for i := range a.Elements {
		if a.Elements[i].Inputs == nil {
			a.Elements[i].Inputs = []string{}
		}
	}
	return a
}
