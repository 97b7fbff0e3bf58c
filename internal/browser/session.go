package browser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

// Open starts a live browser session using the configured driver.
func Open(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("Starting browser...",
		zap.String("driver", cfg.Driver),
		zap.Bool("headless", cfg.Headless),
	)

	switch cfg.Driver {
	case config.DriverPlaywright, "":
		m, err := NewManager(cfg, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.DriverChromedp:
		s, err := NewChromeSession(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", cfg.Driver)
	}
}
