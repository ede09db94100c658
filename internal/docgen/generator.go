package docgen

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Generator orchestrates per-file analysis and builds the final documents.
type Generator struct {
	llm      LLMCompleter
	analyzer *Analyzer
	workers  int
	progress ProgressFunc
	logger   *zap.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithWorkers bounds how many files are analyzed at once. Values below 2
// keep analysis strictly sequential.
func WithWorkers(n int) GeneratorOption {
	return func(g *Generator) { g.workers = n }
}

// WithMaxChars sets the per-file content budget.
func WithMaxChars(n int) GeneratorOption {
	return func(g *Generator) { g.analyzer.maxChars = n }
}

// WithProgress registers a callback invoked after each analyzed file.
func WithProgress(fn ProgressFunc) GeneratorOption {
	return func(g *Generator) { g.progress = fn }
}

// WithLogger sets the generator's logger.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
			g.analyzer.logger = l
		}
	}
}

// NewGenerator creates a Generator backed by llm.
func NewGenerator(llm LLMCompleter, opts ...GeneratorOption) *Generator {
	g := &Generator{
		llm:      llm,
		analyzer: NewAnalyzer(llm, DefaultMaxChars, nil),
		workers:  1,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.analyzer.maxChars <= 0 {
		g.analyzer.maxChars = DefaultMaxChars
	}
	return g
}

// ProcessProject analyzes every file and returns one context entry and one
// page per file, in input order. Individual failures are replaced by
// FailedAnalysis; only cancellation of ctx is returned as an error.
func (g *Generator) ProcessProject(ctx context.Context, files FileMap) (*ProjectResult, error) {
	total := len(files)
	analyzed := make([]AnalyzedFile, total)

	var mu sync.Mutex
	done := 0
	report := func(path string) {
		if g.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		g.progress(done, total, path)
	}

	analyze := func(i int) {
		f := files[i]
		analysis, err := g.analyzer.AnalyzeOrFallback(ctx, f.Path, f.Content)
		analyzed[i] = AnalyzedFile{Path: f.Path, Analysis: analysis, Err: err}
		report(f.Path)
	}

	if g.workers <= 1 {
		for i := range files {
			analyze(i)
		}
	} else {
		p := pool.New().WithMaxGoroutines(g.workers)
		for i := range files {
			i := i
			p.Go(func() { analyze(i) })
		}
		p.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "processing project")
	}

	result := &ProjectResult{
		Files:   analyzed,
		Context: make([]string, total),
		Pages:   make([]string, total),
	}
	for i, af := range analyzed {
		result.Context[i] = ContextEntry(af.Path, af.Analysis)
		result.Pages[i] = RenderPage(af.Path, af.Analysis)
	}
	return result, nil
}

// GenerateReadme asks the LLM for README prose from the aggregate digest.
// Any failure comes back as *GenerationError.
func (g *Generator) GenerateReadme(ctx context.Context, digest string) (string, error) {
	user, err := renderPrompt(readmeUserTmpl, struct{ Summary string }{Summary: digest})
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	text, err := g.llm.Complete(ctx, readmeSystemPrompt, user)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Err: errors.New("empty completion")}
	}
	return text, nil
}

// FinalDocs holds the two generated documents.
type FinalDocs struct {
	Readme    string
	Reference string
	// ReadmeErr is set when Readme is the error report.
	ReadmeErr error
}

// CreateFinalDocs builds the README and the technical reference. A failed
// README call yields ErrorReadme instead of an error.
func (g *Generator) CreateFinalDocs(ctx context.Context, result *ProjectResult) FinalDocs {
	docs := FinalDocs{Reference: ReferenceDocument(result.Pages)}

	readme, err := g.GenerateReadme(ctx, Digest(result.Context))
	if err != nil {
		g.logger.Warn("README generation failed", zap.Error(err))
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			docs.Readme = ErrorReadme(genErr.Err)
		} else {
			docs.Readme = ErrorReadme(err)
		}
		docs.ReadmeErr = err
		return docs
	}
	docs.Readme = readme
	return docs
}
