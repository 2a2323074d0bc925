package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docqa/internal/ask"
	"docqa/internal/common/fsutil"
	"docqa/internal/completion"
	"docqa/internal/extract"
)

func newAskCmd() *cobra.Command {
	var (
		apiKey, prompt, file, model string
		temperature                 float64
		maxTokens                   int
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask one question from the command line and print the answer",
		Example: "  docqa ask --prompt 'Summarize this' --file report.pdf\n" +
			"  OPENAI_API_KEY=sk-... docqa ask --prompt 'Hello' --model gpt-4o",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if temperature < 0 || temperature > 1 {
				return fmt.Errorf("temperature must be within [0,1], got %v", temperature)
			}
			if maxTokens < 1 || maxTokens > 1000 {
				return fmt.Errorf("max-tokens must be within [1,1000], got %d", maxTokens)
			}
			if apiKey == "" {
				apiKey = os.Getenv("OPENAI_API_KEY")
			}
			in := ask.Input{
				Credential: apiKey,
				Model:      model,
				Prompt:     prompt,
				Params:     completion.Parameters{Temperature: temperature, MaxTokens: maxTokens},
			}
			if file != "" {
				up, err := readUpload(file, int64(cfg.MaxUploadMB)<<20)
				if err != nil {
					return err
				}
				in.File = up
			}

			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			svc, cleanup, err := buildService(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			out := svc.Ask(cmd.Context(), in)
			if !out.OK() {
				return errors.New(out.Message)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Answer)
			return err
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Completion credential (defaults to OPENAI_API_KEY)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt text")
	cmd.Flags().StringVar(&file, "file", "", "Document to append (.txt, .pdf, .docx)")
	cmd.Flags().StringVar(&model, "model", "", "Model id (defaults to the configured default)")
	cmd.Flags().Float64Var(&temperature, "temperature", completion.DefaultTemperature, "Sampling temperature in [0,1]")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", completion.DefaultMaxTokens, "Maximum answer tokens in [1,1000]")
	cmd.Flags().String("base-url", "", "Completion endpoint root")
	return cmd
}

func readUpload(path string, limit int64) (*ask.Upload, error) {
	data, err := fsutil.ReadLimited(path, limit)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &ask.Upload{Name: filepath.Base(path), MediaType: extract.MediaTypeFor(path), Data: data}, nil
}
