package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/browser"
	"github.com/nbenliogludev/go-form-filler/internal/form"
)

// State is the lifecycle position of an execution or a run.
type State string

const (
	StatePending         State = "pending"
	StateExecuting       State = "executing"
	StateCompleted       State = "completed"
	StatePartiallyFailed State = "partially_failed"
	// StateFailed marks a run that stopped before any action was executed.
	StateFailed State = "failed"
)

var ErrAlreadyExecuted = errors.New("actions were already executed")

// Failure is an action that was dispatched and returned an error.
type Failure struct {
	Action Action
	Err    error
}

// Result summarizes one execution.
type Result struct {
	State    State
	Applied  []Action
	Failed   []Failure
	Rejected []Rejection
}

// Executor interprets action lines against a page. Only the three verbs of
// browser.Actions are reachable, and every action is checked against the
// extracted fields before dispatch.
type Executor struct {
	page   browser.Actions
	fields map[string]form.FieldDescriptor
	state  State
	logger *zap.Logger
}

func NewExecutor(page browser.Actions, fields []form.FieldDescriptor, logger *zap.Logger) *Executor {
	byID := make(map[string]form.FieldDescriptor, len(fields))
	for _, f := range form.Targetable(fields) {
		if _, dup := byID[*f.ID]; !dup {
			byID[*f.ID] = f
		}
	}
	return &Executor{
		page:   page,
		fields: byID,
		state:  StatePending,
		logger: logger.Named("agent.executor"),
	}
}

func (e *Executor) State() State { return e.state }

// Execute runs every line of text in order. A rejected or failing line is
// logged and recorded, and execution moves on to the next one. Nothing
// already applied is rolled back.
func (e *Executor) Execute(ctx context.Context, text string) (*Result, error) {
	if e.state != StatePending {
		return nil, ErrAlreadyExecuted
	}
	e.state = StateExecuting

	actions, rejected := ParseActions(text)
	res := &Result{Rejected: rejected}
	for _, r := range rejected {
		e.logger.Warn("Rejected action line.",
			zap.Int("line", r.Line),
			zap.String("content", r.Raw),
			zap.String("reason", r.Reason),
		)
	}

	for _, a := range actions {
		if reason := e.guard(a); reason != "" {
			e.logger.Warn("Rejected action line.",
				zap.Int("line", a.Line),
				zap.String("content", a.Raw),
				zap.String("reason", reason),
			)
			res.Rejected = append(res.Rejected, Rejection{Line: a.Line, Raw: a.Raw, Reason: reason})
			continue
		}

		if err := e.dispatch(ctx, a); err != nil {
			e.logger.Warn("Action failed.",
				zap.Int("line", a.Line),
				zap.String("content", a.Raw),
				zap.Error(err),
			)
			res.Failed = append(res.Failed, Failure{Action: a, Err: err})
			continue
		}

		e.logger.Debug("Action applied.", zap.String("action", a.String()))
		res.Applied = append(res.Applied, a)
	}

	if len(res.Failed) > 0 || len(res.Rejected) > 0 {
		e.state = StatePartiallyFailed
	} else {
		e.state = StateCompleted
	}
	res.State = e.state

	e.logger.Info("Execution finished.",
		zap.String("state", string(res.State)),
		zap.Int("applied", len(res.Applied)),
		zap.Int("failed", len(res.Failed)),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

// guard returns a non-empty reason when a must not be dispatched.
func (e *Executor) guard(a Action) string {
	f, ok := e.fields[a.TargetID()]
	if !ok {
		return fmt.Sprintf("unknown field %s", a.Selector)
	}
	if form.IsProtected(f) {
		return fmt.Sprintf("field %s is a protected signature or attestation field", a.Selector)
	}

	switch a.Verb {
	case VerbFill:
		if !f.IsFillable() {
			return fmt.Sprintf("cannot fill %s field %s", kind(f), a.Selector)
		}
	case VerbCheck:
		if !f.IsToggle() {
			return fmt.Sprintf("cannot check %s field %s", kind(f), a.Selector)
		}
	case VerbSelectOption:
		if f.Tag != form.TagSelect {
			return fmt.Sprintf("cannot select an option of %s field %s", kind(f), a.Selector)
		}
	}
	return ""
}

func kind(f form.FieldDescriptor) string {
	if f.Tag == form.TagInput {
		return f.InputType()
	}
	return string(f.Tag)
}

func (e *Executor) dispatch(ctx context.Context, a Action) error {
	sel := browser.IDSelector(a.TargetID())
	switch a.Verb {
	case VerbFill:
		return e.page.Fill(ctx, sel, a.Value)
	case VerbCheck:
		return e.page.Check(ctx, sel)
	case VerbSelectOption:
		return e.page.SelectOption(ctx, sel, a.Value)
	default:
		return fmt.Errorf("unknown verb %q", a.Verb)
	}
}
