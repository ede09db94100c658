// cmd/autodocs/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/julianshen/autodocs/internal/config"
	"github.com/julianshen/autodocs/internal/output"

	// Register providers via init() side effects.
	_ "github.com/julianshen/autodocs/internal/provider/ollama"
	_ "github.com/julianshen/autodocs/internal/provider/openai"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// lookupEnv reads the process environment.
var lookupEnv config.LookupFunc = os.LookupEnv

// flags holds the command-line overrides shared by the root command.
type flags struct {
	configPath  string
	model       string
	baseURL     string
	outputDir   string
	workers     int
	format      string
	logLevel    string
	logJSON     bool
	preview     bool
	summary     string
	interactive bool
}

func versionString() string {
	return fmt.Sprintf("autodocs %s (commit: %s, built: %s)", version, commit, date)
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "autodocs [path]",
		Short: "Generate a README and technical reference for a project",
		Long: `autodocs scans a project folder, asks an LLM to analyze every source file,
and writes a README plus a technical reference manual built from the analyses.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to config file (TOML or YAML)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&f.logJSON, "log-json", false, "write logs as JSON")
	pf.StringVar(&f.baseURL, "base-url", "", "override API base URL")

	fl := rootCmd.Flags()
	fl.StringVar(&f.model, "model", "", "override model name")
	fl.StringVar(&f.outputDir, "output", "", "output directory (default \"output\")")
	fl.IntVar(&f.workers, "workers", 0, "files analyzed in parallel (default 1)")
	fl.StringVar(&f.format, "format", "", "output format: raw-md, hugo, docusaurus")
	fl.BoolVar(&f.preview, "preview", false, "render the generated README in the terminal")
	fl.StringVar(&f.summary, "summary", "", "print a run summary to stdout: json, markdown")
	fl.BoolVar(&f.interactive, "interactive", true, "prompt for the project folder when no path is given")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd(f))
	rootCmd.AddCommand(ollamaCmd(f))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// printError writes err and any attached hints.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", output.ErrorStyle.Render("Error:"), err)
	if hints := errors.FlattenHints(err); hints != "" {
		for _, hint := range strings.Split(hints, "\n") {
			if strings.TrimSpace(hint) == "" {
				continue
			}
			fmt.Fprintf(w, "%s %s\n", output.HintStyle.Render("hint:"), hint)
		}
	}
}

// defaultConfigPath returns $HOME/.config/autodocs/config.toml, or
// ./autodocs.toml when only that one exists.
func defaultConfigPath() string {
	var homePath string
	if home, err := os.UserHomeDir(); err == nil {
		homePath = filepath.Join(home, ".config", "autodocs", "config.toml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	if _, err := os.Stat("autodocs.toml"); err == nil {
		return "autodocs.toml"
	}
	if homePath != "" {
		return homePath
	}
	return "autodocs.toml"
}

// loadConfig layers defaults, the config file, the environment and the
// command-line flags, in that order.
func loadConfig(cmd *cobra.Command, f *flags, lookup config.LookupFunc) (*config.Config, error) {
	cfgPath := f.configPath
	if cfgPath == "" {
		cfgPath = defaultConfigPath()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	config.ApplyEnv(cfg, lookup)

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("model") {
		cfg.Provider.Model = f.model
	}
	if changed("base-url") {
		cfg.Provider.BaseURL = f.baseURL
	}
	if changed("output") {
		cfg.Output.Dir = f.outputDir
	}
	if changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-json") {
		cfg.Log.JSON = f.logJSON
	}

	return cfg, nil
}
