package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Capture is the state of a page after the form was filled.
type Capture struct {
	URL        string
	Title      string
	Screenshot []byte
	// Format is the image file extension of Screenshot ("jpg" or "png").
	Format string
}

// Capturer is implemented by drivers that can photograph the live page.
type Capturer interface {
	Capture(ctx context.Context) (*Capture, error)
}

func (m *Manager) Capture(ctx context.Context) (*Capture, error) {
	if m == nil || m.Page == nil {
		return nil, fmt.Errorf("page is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title, _ := m.Page.Title()

	buf, err := m.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypeJpeg,
		Quality:  playwright.Int(70),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}

	return &Capture{
		URL:        m.Page.URL(),
		Title:      title,
		Screenshot: buf,
		Format:     "jpg",
	}, nil
}
