package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/julianshen/autodocs/internal/config"
	"github.com/julianshen/autodocs/internal/docgen"
	"github.com/julianshen/autodocs/internal/integrations"
	"github.com/julianshen/autodocs/internal/logger"
	"github.com/julianshen/autodocs/internal/output"
	"github.com/julianshen/autodocs/internal/pathsource"
	"github.com/julianshen/autodocs/internal/provider"
	"github.com/julianshen/autodocs/internal/provider/ollama"
	"github.com/julianshen/autodocs/internal/tui"
)

func runGenerate(cmd *cobra.Command, f *flags, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var summary output.Formatter
	if f.summary != "" {
		var ok bool
		if summary, ok = output.NewFormatter(f.summary); !ok {
			return errors.WithHint(errors.Newf("unknown summary format %q", f.summary), "use json or markdown")
		}
	}

	cfg, err := loadConfig(cmd, f, lookupEnv)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fmt.Fprintln(errOut, output.Banner("Auto-Docs Generator", "README and technical reference from your source tree"))

	sources := pathsource.Chain{}
	if len(args) > 0 {
		sources = append(sources, pathsource.Static(args[0]))
	}
	if f.interactive {
		sources = append(sources, &pathsource.Prompt{})
	}
	root, err := sources.Path(ctx)
	if err != nil {
		return err
	}
	if err := pathsource.ValidateDir(root); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid path"), docgen.ErrInvalidInput)
	}

	project := docgen.ProjectName(root)
	fmt.Fprintf(errOut, "%s %s\n", output.InfoStyle.Render("Target project:"), project)

	llm, err := newCompleter(cmd, cfg, lookupEnv, log)
	if err != nil {
		return err
	}

	reporter := tui.NewProgressReporter(errOut, isTerminal(errOut))
	opts := docgen.OptionsFromConfig(root, cfg)
	opts.Project = project
	opts.Logger = log
	opts.Progress = reporter.Update
	opts.Scanned = func(files docgen.FileMap) {
		fmt.Fprintln(errOut, output.SuccessStyle.Render(fmt.Sprintf("Found %d valid files.", len(files))))
		fmt.Fprintln(errOut, output.WarnStyle.Render("Starting analysis..."))
	}

	report, runErr := docgen.Run(ctx, opts, llm)
	reporter.Finish()

	if summary != nil {
		data, err := summary.Format(output.NewRunResult(report, cfg.Provider.Model, llm.Usage(), runErr))
		if err != nil {
			return errors.Wrap(err, "formatting summary")
		}
		if _, err := out.Write(data); err != nil {
			return errors.Wrap(err, "writing summary")
		}
	}
	if runErr != nil {
		return runErr
	}

	for _, path := range report.Written {
		fmt.Fprintf(errOut, "%s %s\n", output.SuccessStyle.Render("Saved:"), path)
	}
	if failed := report.FailedCount(); failed > 0 {
		fmt.Fprintln(errOut, output.WarnStyle.Render(fmt.Sprintf("%d of %d files could not be analyzed; see their technical notes.", failed, len(report.Files))))
	}
	if report.ReadmeFailed {
		fmt.Fprintln(errOut, output.WarnStyle.Render("README generation failed; an error report was written instead."))
	}
	fmt.Fprintf(errOut, "%s %s\n", output.InfoStyle.Render("Success! Docs saved in:"), report.OutputDir)

	if f.preview {
		return previewReadme(cmd, report.Readme)
	}
	return nil
}

// newCompleter builds the provider-backed completer. Ollama gets a
// reachability and model check first.
func newCompleter(cmd *cobra.Command, cfg *config.Config, lookup config.LookupFunc, log *zap.Logger) (*integrations.LLMCompleter, error) {
	p, err := provider.NewProvider(cfg, lookup, log)
	if err != nil {
		return nil, errors.Wrap(err, "creating provider")
	}

	if cfg.Provider.Name == "ollama" {
		if err := ollama.NewClient(ollama.BaseURL(cfg.Provider.BaseURL)).Preflight(cmd.Context(), cfg.Provider.Model); err != nil {
			return nil, err
		}
	}

	return integrations.NewLLMCompleter(p, cfg.Provider.Model,
		integrations.WithMaxTokens(cfg.Provider.MaxTokens),
		integrations.WithTemperature(cfg.Provider.Temperature),
	), nil
}

func previewReadme(cmd *cobra.Command, readme string) error {
	out := cmd.OutOrStdout()
	width := 100
	var (
		r   *output.MarkdownRenderer
		err error
	)
	if isTerminal(out) {
		if w, _, sizeErr := term.GetSize(int(out.(*os.File).Fd())); sizeErr == nil && w > 20 {
			width = w - 4
		}
		r, err = output.NewMarkdownRenderer(width)
	} else {
		r, err = output.NewPlainMarkdownRenderer(width)
	}
	if err != nil {
		return err
	}
	rendered, err := r.Render(readme)
	if err != nil {
		return errors.Wrap(err, "rendering README preview")
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w any) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
