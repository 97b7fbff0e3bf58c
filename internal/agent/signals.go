package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

// AwaitRelease blocks until the browser may be released. With
// config.ReleaseClose it returns at once; with config.ReleaseHold it waits
// until ctx is canceled, e.g. by an interrupt signal.
func AwaitRelease(ctx context.Context, mode string, logger *zap.Logger) error {
	switch mode {
	case config.ReleaseClose, "":
		return nil
	case config.ReleaseHold:
		logger.Info("Holding the browser open for inspection. Press Ctrl+C to close.")
		<-ctx.Done()
		return nil
	default:
		return fmt.Errorf("unknown release mode %q", mode)
	}
}
