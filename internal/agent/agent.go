package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/browser"
	"github.com/nbenliogludev/go-form-filler/internal/config"
	"github.com/nbenliogludev/go-form-filler/internal/form"
	"github.com/nbenliogludev/go-form-filler/internal/llm"
	"github.com/nbenliogludev/go-form-filler/internal/userdata"
)

var (
	ErrNavigate = errors.New("navigation failed")
	ErrExtract  = errors.New("field extraction failed")
	ErrGenerate = errors.New("action generation failed")
	ErrArtifact = errors.New("artifact write failed")
)

// Report describes one pass of the pipeline. It is returned even when the
// run fails, with State set to StateFailed and Err holding the cause.
type Report struct {
	RunID      string
	URL        string
	StartedAt  time.Time
	Duration   time.Duration
	DryRun     bool
	Fields     int
	Targetable int
	Protected  int
	Actions    string
	Result     *Result
	State      State
	Artifacts  Artifacts
	Err        error
}

// Agent runs the extract, prompt, generate, sanitize and execute pipeline
// once per call. It holds no per-run state.
type Agent struct {
	llm       llm.Client
	extractor *form.Extractor
	cfg       config.RunConfig
	base      *zap.Logger
	logger    *zap.Logger
}

func NewAgent(client llm.Client, cfg config.RunConfig, logger *zap.Logger) *Agent {
	return &Agent{
		llm:       client,
		extractor: form.NewExtractor(logger),
		cfg:       cfg,
		base:      logger,
		logger:    logger.Named("agent"),
	}
}

func (a *Agent) Run(ctx context.Context, page browser.Page, url string, record userdata.Record) (*Report, error) {
	rep := &Report{
		RunID:     uuid.NewString(),
		URL:       url,
		StartedAt: time.Now(),
		DryRun:    a.cfg.DryRun,
		State:     StatePending,
	}
	defer func() { rep.Duration = time.Since(rep.StartedAt) }()

	logger := a.logger.With(zap.String("run_id", rep.RunID), zap.String("url", url))

	fail := func(stage string, err error) (*Report, error) {
		logger.Error("Run failed.", zap.String("stage", stage), zap.Error(err))
		rep.State = StateFailed
		rep.Err = err
		return rep, err
	}

	if err := page.Navigate(ctx, url); err != nil {
		return fail("navigate", fmt.Errorf("%w: %w", ErrNavigate, err))
	}

	logger.Info("Extracting form field metadata...")
	fields, err := a.extractor.Extract(ctx, page)
	if err != nil {
		return fail("extract", fmt.Errorf("%w: %w", ErrExtract, err))
	}
	rep.Fields = len(fields)
	rep.Targetable = len(form.Targetable(fields))
	rep.Protected = len(form.Protected(fields))

	prompt, err := llm.BuildFillPrompt(fields, record)
	if err != nil {
		return fail("prompt", err)
	}
	if a.cfg.SavePrompt {
		if rep.Artifacts.Prompt, err = writeArtifact(a.cfg.ArtifactsDir, rep.RunID+"-prompt.txt", []byte(prompt)); err != nil {
			return fail("artifact", err)
		}
	}

	logger.Info("Sending field info and user data to the model...",
		zap.Int("fields", rep.Targetable),
		zap.Int("user_data_keys", record.Len()),
	)
	raw, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return fail("generate", fmt.Errorf("%w: %w", ErrGenerate, err))
	}
	logger.Info("Received actions from the model.")

	rep.Actions = llm.Sanitize(raw)
	if rep.Artifacts.Actions, err = writeArtifact(a.cfg.ArtifactsDir, rep.RunID+"-actions.txt", []byte(rep.Actions)); err != nil {
		return fail("artifact", err)
	}

	if a.cfg.DryRun {
		logger.Info("Dry run: actions were not executed.", zap.String("actions_file", rep.Artifacts.Actions))
		return rep, nil
	}

	logger.Info("Executing generated actions...")
	res, err := NewExecutor(page, fields, a.base).Execute(ctx, rep.Actions)
	if err != nil {
		return fail("execute", err)
	}
	rep.Result = res
	rep.State = res.State

	if a.cfg.Screenshot {
		a.capture(ctx, page, rep, logger)
	}
	return rep, nil
}

// capture saves a screenshot of the filled page. Failures are logged only.
func (a *Agent) capture(ctx context.Context, page browser.Page, rep *Report, logger *zap.Logger) {
	c, ok := page.(browser.Capturer)
	if !ok {
		logger.Debug("Driver cannot capture screenshots.")
		return
	}
	shot, err := c.Capture(ctx)
	if err != nil {
		logger.Warn("Screenshot failed.", zap.Error(err))
		return
	}
	path, err := writeArtifact(a.cfg.ArtifactsDir, rep.RunID+"-filled."+shot.Format, shot.Screenshot)
	if err != nil {
		logger.Warn("Screenshot not saved.", zap.Error(err))
		return
	}
	rep.Artifacts.Screenshot = path
}
