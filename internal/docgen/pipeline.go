package docgen

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/julianshen/autodocs/internal/config"
)

// Options holds all pipeline configuration.
type Options struct {
	Root     string
	Project  string // defaults to the base name of Root
	Scan     config.ScanConfig
	Analysis config.AnalysisConfig
	Output   config.OutputConfig
	Logger   *zap.Logger
	Progress ProgressFunc
	// Scanned, when set, is called once with the scan result before analysis.
	Scanned func(files FileMap)
}

// OptionsFromConfig builds Options for root from a loaded config.
func OptionsFromConfig(root string, cfg *config.Config) Options {
	return Options{
		Root:     root,
		Scan:     cfg.Scan,
		Analysis: cfg.Analysis,
		Output:   cfg.Output,
	}
}

// RunReport describes a finished run.
type RunReport struct {
	RunID        string
	Project      string
	Root         string
	OutputDir    string
	Files        []AnalyzedFile
	Written      []string
	ReadmeFailed bool
	Readme       string
	Duration     time.Duration
}

// FailedCount returns how many files fell back to the failure placeholder.
func (r *RunReport) FailedCount() int {
	return (&ProjectResult{Files: r.Files}).FailedCount()
}

// ProjectName returns the base name of the resolved root path.
func ProjectName(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return filepath.Base(filepath.Clean(abs))
}

// OutputDir returns the directory the documents of project are written to.
func OutputDir(cfg config.OutputConfig, project string) string {
	dir := cfg.Dir
	if dir == "" {
		dir = "output"
	}
	if cfg.PerProject {
		return filepath.Join(dir, project)
	}
	return dir
}

// Run executes the full pipeline: scan -> analyze -> final docs -> render.
// An empty scan returns ErrNoFiles without writing anything.
func Run(ctx context.Context, opts Options, llm LLMCompleter) (*RunReport, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &RunReport{
		RunID:   uuid.NewString(),
		Root:    opts.Root,
		Project: opts.Project,
	}
	if report.Project == "" {
		report.Project = ProjectName(opts.Root)
	}
	logger = logger.With(zap.String("run_id", report.RunID), zap.String("project", report.Project))

	// Stage 1: Scan
	files, err := Scan(opts.Root, opts.Scan, logger)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.WithHint(
			errors.Mark(errors.Newf("no valid files found to analyze in %s", opts.Root), ErrNoFiles),
			"check scan.allowed_extensions and scan.ignore_dirs in the config file",
		)
	}

	if opts.Scanned != nil {
		opts.Scanned(files)
	}

	// Stage 2: Analyze
	gen := NewGenerator(llm,
		WithWorkers(opts.Analysis.Workers),
		WithMaxChars(opts.Analysis.MaxChars),
		WithProgress(opts.Progress),
		WithLogger(logger),
	)
	logger.Info("analyzing files", zap.Int("files", len(files)), zap.Int("workers", max(opts.Analysis.Workers, 1)))
	result, err := gen.ProcessProject(ctx, files)
	if err != nil {
		return nil, err
	}
	report.Files = result.Files

	// Stage 3: Final documents
	logger.Info("generating final documentation")
	final := gen.CreateFinalDocs(ctx, result)
	report.Readme = final.Readme
	report.ReadmeFailed = final.ReadmeErr != nil

	// Stage 4: Render
	report.OutputDir = OutputDir(opts.Output, report.Project)
	docs := []Document{
		{Path: nameOr(opts.Output.ReadmeName, "README.md"), Title: report.Project, Content: final.Readme},
		{Path: nameOr(opts.Output.ReferenceName, "TECHNICAL_REFERENCE.md"), Title: ReferenceTitle, Content: final.Reference},
	}
	written, err := Render(docs, RendererConfig{
		Format:    opts.Output.Format,
		OutputDir: report.OutputDir,
		SiteTitle: report.Project,
	})
	report.Written = written
	if err != nil {
		return report, errors.Wrap(err, "writing documentation")
	}
	for _, path := range written {
		logger.Info("saved", zap.String("path", path))
	}

	report.Duration = time.Since(start)
	return report, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
