package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/agent"
	"github.com/nbenliogludev/go-form-filler/internal/browser"
	"github.com/nbenliogludev/go-form-filler/internal/config"
	"github.com/nbenliogludev/go-form-filler/internal/llm"
	"github.com/nbenliogludev/go-form-filler/internal/observability"
)

// flagKeys maps command-line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level":     "logger.level",
	"data":          "run.data_file",
	"artifacts-dir": "run.artifacts_dir",
	"dry-run":       "run.dry_run",
	"screenshot":    "run.screenshot",
	"save-prompt":   "run.save_prompt",
	"provider":      "llm.provider",
	"model":         "llm.model",
	"driver":        "browser.driver",
	"headless":      "browser.headless",
}

// app carries the per-process state shared by the commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger

	open      agent.OpenFunc
	newClient func(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llm.Client, error)
}

func newApp() *app {
	return &app{
		v:         config.NewViper(),
		logger:    zap.NewNop(),
		open:      browser.Open,
		newClient: llm.NewClient,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "form-filler",
		Short:         "Fills web forms from structured user data with the help of a language model.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync(a.logger)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./form-filler.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newFillCmd(a), newFieldsCmd(a))
	return root
}

// initialize binds flags, loads the configuration and builds the logger.
func (a *app) initialize(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.NewConfigFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Logger)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("Loaded config file.", zap.String("path", used))
	}
	return nil
}

func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().String("driver", config.DriverPlaywright, "browser driver: playwright or chromedp")
	cmd.Flags().Bool("headless", false, "run the browser without a window")
}
