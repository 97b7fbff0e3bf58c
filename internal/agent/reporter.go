package agent

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Reporter prints the end-of-run report.
type Reporter struct {
	out    io.Writer
	logger *zap.Logger
}

func NewReporter(out io.Writer, logger *zap.Logger) *Reporter {
	return &Reporter{out: out, logger: logger.Named("agent.reporter")}
}

func (r *Reporter) Print(rep *Report) {
	if rep == nil {
		return
	}

	fields := []zap.Field{
		zap.String("run_id", rep.RunID),
		zap.String("url", rep.URL),
		zap.String("state", string(rep.State)),
		zap.Duration("duration", rep.Duration),
	}
	if rep.Result != nil {
		fields = append(fields,
			zap.Int("applied", len(rep.Result.Applied)),
			zap.Int("failed", len(rep.Result.Failed)),
			zap.Int("rejected", len(rep.Result.Rejected)),
		)
	}
	if rep.Err != nil {
		r.logger.Error("Form fill failed.", append(fields, zap.Error(rep.Err))...)
	} else {
		r.logger.Info("Form fill finished.", fields...)
	}

	w := r.out
	fmt.Fprintln(w, "\n===== FORM FILL REPORT =====")
	fmt.Fprintf(w, "Run: %s\n", rep.RunID)
	fmt.Fprintf(w, "URL: %s\n", rep.URL)
	fmt.Fprintf(w, "Duration: %s\n", rep.Duration.Truncate(time.Millisecond))
	fmt.Fprintf(w, "Fields: %d found, %d targetable, %d protected\n", rep.Fields, rep.Targetable, rep.Protected)
	fmt.Fprintf(w, "Outcome: %s\n", humanizeState(rep.State, rep.DryRun))
	if rep.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", rep.Err)
	}

	if res := rep.Result; res != nil {
		fmt.Fprintln(w, "\n--- APPLIED ---")
		if len(res.Applied) == 0 {
			fmt.Fprintln(w, "(none)")
		}
		for _, a := range res.Applied {
			fmt.Fprintf(w, "line %d: %s\n", a.Line, a.String())
		}

		if len(res.Failed) > 0 {
			fmt.Fprintln(w, "\n--- FAILED ---")
			for _, f := range res.Failed {
				fmt.Fprintf(w, "line %d: %s: %v\n", f.Action.Line, strings.TrimSpace(f.Action.Raw), f.Err)
			}
		}

		if len(res.Rejected) > 0 {
			fmt.Fprintln(w, "\n--- REJECTED ---")
			for _, rj := range res.Rejected {
				fmt.Fprintf(w, "line %d: %s: %s\n", rj.Line, strings.TrimSpace(rj.Raw), rj.Reason)
			}
		}
	}

	if a := rep.Artifacts; a.Actions != "" || a.Prompt != "" || a.Screenshot != "" {
		fmt.Fprintln(w, "\n--- ARTIFACTS ---")
		for _, p := range []string{a.Actions, a.Prompt, a.Screenshot} {
			if p != "" {
				fmt.Fprintln(w, p)
			}
		}
	}

	fmt.Fprintln(w, "===== END OF REPORT =====")
}
