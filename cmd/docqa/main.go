package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Ask a hosted chat model about a prompt and an optional document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to a yaml, json or toml config file")
	root.AddCommand(newServeCmd(), newAskCmd(), newExtractCmd(), newEnvCmd())
	return root
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables docqa reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			help, err := config.EnvHelp()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), help)
			return err
		},
	}
}

// resolveConfig loads the config named by --config and applies the flags the
// command marked as changed.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return cfg, err
	}
	changed := false
	if f := cmd.Flags().Lookup("models"); f != nil && f.Changed {
		cfg.Models = splitCSV(f.Value.String())
		changed = true
	}
	if f := cmd.Flags().Lookup("default-model"); f != nil && f.Changed {
		cfg.DefaultModel = f.Value.String()
		changed = true
	}
	if f := cmd.Flags().Lookup("base-url"); f != nil && f.Changed {
		cfg.BaseURL = f.Value.String()
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
		changed = true
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
		changed = true
	}
	if changed {
		config.ApplyDefaults(&cfg)
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config: %w", err)
		}
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
