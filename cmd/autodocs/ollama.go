package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/julianshen/autodocs/internal/provider/ollama"
)

// ollamaCmd inspects the Ollama server the config points at. The endpoint
// and model come from the same config, env and --base-url/--model layering
// as a documentation run.
func ollamaCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ollama",
		Short: "Inspect the local Ollama server",
		Long:  "Check whether Ollama is reachable and serves the configured model.",
	}

	cmd.PersistentFlags().StringVar(&f.model, "model", "", "model to check for (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List locally available models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveOllamaTarget(cmd, f)
			if err != nil {
				return err
			}
			return listOllamaModels(cmd, target)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Check the server and the configured model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveOllamaTarget(cmd, f)
			if err != nil {
				return err
			}
			return ollamaStatus(cmd, target)
		},
	})

	return cmd
}

type ollamaTarget struct {
	baseURL string
	model   string
	client  *ollama.Client
}

func resolveOllamaTarget(cmd *cobra.Command, f *flags) (*ollamaTarget, error) {
	cfg, err := loadConfig(cmd, f, lookupEnv)
	if err != nil {
		return nil, err
	}
	baseURL := ollama.BaseURL(cfg.Provider.BaseURL)
	return &ollamaTarget{
		baseURL: baseURL,
		model:   cfg.Provider.Model,
		client:  ollama.NewClient(baseURL),
	}, nil
}

func listOllamaModels(cmd *cobra.Command, target *ollamaTarget) error {
	models, err := target.client.ListModels(cmd.Context())
	if err != nil {
		return notReachable(err, target.baseURL)
	}
	if len(models) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No models available at %s.\n", target.baseURL)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED\t")
	for _, m := range models {
		marker := ""
		if m.Name == target.model {
			marker = "(configured)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.Name, humanize.IBytes(uint64(max(m.Size, 0))), m.ModifiedAt.Format(time.RFC3339), marker)
	}
	return w.Flush()
}

func ollamaStatus(cmd *cobra.Command, target *ollamaTarget) error {
	ctx := cmd.Context()
	version, err := target.client.Version(ctx)
	if err != nil {
		return notReachable(err, target.baseURL)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Server:\t%s\n", target.baseURL)
	fmt.Fprintf(w, "Version:\t%s\n", version)
	fmt.Fprintf(w, "Model:\t%s (%s)\n", target.model, modelState(ctx, target))
	return w.Flush()
}

// modelState reports whether the configured model passes the same preflight
// a documentation run does.
func modelState(ctx context.Context, target *ollamaTarget) string {
	if err := target.client.Preflight(ctx, target.model); err != nil {
		return "not available: " + err.Error()
	}
	return "ready"
}

func notReachable(err error, baseURL string) error {
	return errors.WithHint(
		errors.Wrapf(err, "ollama not reachable at %s", baseURL),
		"start it with `ollama serve` or point --base-url at the server")
}
