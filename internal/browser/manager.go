package browser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

// Manager drives a persistent Chromium context through playwright.
type Manager struct {
	pw         *playwright.Playwright
	Context    playwright.BrowserContext
	Page       playwright.Page
	navTimeout time.Duration
	logger     *zap.Logger
}

func NewManager(cfg config.BrowserConfig, logger *zap.Logger) (*Manager, error) {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	userDataDir, err := filepath.Abs(cfg.UserDataDir)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("resolve user data dir: %w", err)
	}

	browserCtx, err := pw.Chromium.LaunchPersistentContext(
		userDataDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(cfg.Headless),
			Args:     cfg.Args,
		},
	)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	var page playwright.Page
	pages := browserCtx.Pages()
	if len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = browserCtx.NewPage()
		if err != nil {
			_ = browserCtx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	page.SetDefaultTimeout(float64(cfg.Timeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(cfg.NavigationTimeout.Milliseconds()))

	return &Manager{
		pw:         pw,
		Context:    browserCtx,
		Page:       page,
		navTimeout: cfg.NavigationTimeout,
		logger:     logger.Named("browser.playwright"),
	}, nil
}

func (m *Manager) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("Navigating to the target URL...", zap.String("url", url))
	_, err := m.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(m.navTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}

	// Late scripts may still be rendering fields; a busy page is not fatal.
	state := playwright.LoadState("networkidle")
	if err := m.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: &state}); err != nil {
		m.logger.Debug("Page did not reach network idle.", zap.Error(err))
	}
	return nil
}

func (m *Manager) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := m.Page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &pwElement{handle: h})
	}
	return out, nil
}

func (m *Manager) Query(ctx context.Context, selector string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := m.Page.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if h == nil {
		return nil, nil
	}
	return &pwElement{handle: h}, nil
}

func (m *Manager) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Page.Fill(selector, value)
}

func (m *Manager) Check(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Page.Check(selector)
}

// SelectOption matches value against option values first, then option labels.
func (m *Manager) SelectOption(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	byValue, err := m.Page.SelectOption(selector, playwright.SelectOptionValues{Values: &[]string{value}})
	if err == nil && len(byValue) > 0 {
		return nil
	}
	byLabel, labelErr := m.Page.SelectOption(selector, playwright.SelectOptionValues{Labels: &[]string{value}})
	if labelErr != nil {
		return errors.Join(err, labelErr)
	}
	if len(byLabel) == 0 {
		return fmt.Errorf("no option %q in %s", value, selector)
	}
	return nil
}

func (m *Manager) Close() error {
	var errs []error
	if m.Context != nil {
		errs = append(errs, m.Context.Close())
	}
	if m.pw != nil {
		errs = append(errs, m.pw.Stop())
	}
	return errors.Join(errs...)
}

type pwElement struct {
	handle playwright.ElementHandle
}

func (e *pwElement) TagName() (string, error) {
	v, err := e.handle.Evaluate(`e => e.tagName`)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return strings.ToUpper(s), nil
}

func (e *pwElement) Attribute(name string) (string, bool, error) {
	v, err := e.handle.Evaluate(`(e, name) => e.getAttribute(name)`, name)
	if err != nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (e *pwElement) InnerText() (string, error) {
	return e.handle.InnerText()
}

func (e *pwElement) ClosestLabelText() (string, bool, error) {
	v, err := e.handle.Evaluate(`e => {
		const label = e.closest('label');
		return label ? label.innerText : null;
	}`)
	if err != nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}
