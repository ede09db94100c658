package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/julianshen/autodocs/internal/config"
	"github.com/julianshen/autodocs/internal/pathsource"
	"github.com/julianshen/autodocs/internal/tui"
)

func configCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the autodocs config file",
	}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd(f))
	return cmd
}

func configInitCmd() *cobra.Command {
	var (
		interactive bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath()
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.WithHint(
					errors.Newf("config file %s already exists", path),
					"pass --force to overwrite it")
			}

			cfg := config.DefaultConfig()
			if interactive && pathsource.StdinIsTerminal() {
				form := tui.NewSetupForm(path, cfg)
				if err := form.Run(cmd.Context()); err != nil {
					return errors.Wrap(err, "running setup")
				}
				if err := form.Save(); err != nil {
					return err
				}
			} else if err := config.Save(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&interactive, "interactive", false, "walk through provider setup in the terminal")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configShowCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f, lookupEnv)
			if err != nil {
				return err
			}
			if cfg.Provider.APIKey != "" {
				cfg.Provider.APIKey = "********"
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}
}
