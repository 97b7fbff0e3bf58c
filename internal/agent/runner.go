package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/browser"
	"github.com/nbenliogludev/go-form-filler/internal/config"
	"github.com/nbenliogludev/go-form-filler/internal/llm"
	"github.com/nbenliogludev/go-form-filler/internal/userdata"
)

// OpenFunc starts a browser session.
type OpenFunc func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (browser.Session, error)

// Runner owns the browser session of a run: it opens it, runs the agent,
// reports, waits for release and closes the session on every path.
type Runner struct {
	cfg      *config.Config
	open     OpenFunc
	agent    *Agent
	reporter *Reporter
	base     *zap.Logger
	logger   *zap.Logger
}

func NewRunner(cfg *config.Config, open OpenFunc, client llm.Client, reporter *Reporter, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		open:     open,
		agent:    NewAgent(client, cfg.Run, logger),
		reporter: reporter,
		base:     logger,
		logger:   logger.Named("agent.runner"),
	}
}

func (r *Runner) Run(ctx context.Context, url string, record userdata.Record) (rep *Report, err error) {
	session, err := r.open(ctx, r.cfg.Browser, r.base)
	if err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.logger.Warn("Closing the browser failed.", zap.Error(cerr))
		}
	}()

	rep, err = r.agent.Run(ctx, session, url, record)
	r.reporter.Print(rep)

	if rerr := AwaitRelease(ctx, r.cfg.Run.Release, r.logger); rerr != nil && err == nil {
		err = rerr
	}
	return rep, err
}
