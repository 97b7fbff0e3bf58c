package main

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/agent"
	"github.com/nbenliogludev/go-form-filler/internal/config"
	"github.com/nbenliogludev/go-form-filler/internal/userdata"
)

func newFillCmd(a *app) *cobra.Command {
	var hold bool

	cmd := &cobra.Command{
		Use:   "fill <url>",
		Short: "Fill the form at url with the configured user data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hold {
				a.cfg.Run.Release = config.ReleaseHold
			}
			return a.fill(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("data", "d", "mock_data.json", "user data file (.json or .toml)")
	f.String("provider", config.ProviderGemini, "model provider: gemini or openai")
	f.String("model", "", "model name (defaults to llm.model)")
	f.String("artifacts-dir", ".", "directory for generated actions, prompts and screenshots")
	f.Bool("dry-run", false, "generate and save actions without executing them")
	f.Bool("screenshot", false, "save a screenshot of the filled form")
	f.Bool("save-prompt", false, "save the prompt sent to the model")
	f.BoolVar(&hold, "hold", false, "keep the browser open until interrupted")
	addBrowserFlags(cmd)

	return cmd
}

// fill performs every setup step before the browser is started, so setup
// errors never reach the pipeline.
func (a *app) fill(ctx context.Context, out io.Writer, target string) error {
	if err := validateURL(target); err != nil {
		return err
	}
	if err := a.cfg.RequireCredential(); err != nil {
		return err
	}

	record, err := userdata.Load(a.cfg.Run.DataFile)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}
	a.logger.Info("Loaded user data.",
		zap.String("file", a.cfg.Run.DataFile),
		zap.Int("keys", record.Len()),
	)

	client, err := a.newClient(ctx, a.cfg.LLM, a.logger)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}

	runner := agent.NewRunner(a.cfg, a.open, client, agent.NewReporter(out, a.logger), a.logger)
	_, err = runner.Run(ctx, target, record)
	return err
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("invalid url %q: missing host", raw)
		}
	case "file":
	default:
		return fmt.Errorf("invalid url %q: scheme must be http, https or file", raw)
	}
	return nil
}
