package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

// ChromeSession drives Chrome over the DevTools protocol.
type ChromeSession struct {
	Ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	navTimeout  time.Duration
	logger      *zap.Logger
}

func NewChromeSession(cfg config.BrowserConfig, logger *zap.Logger) (*ChromeSession, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.UserDataDir != "" {
		dir, err := filepath.Abs(cfg.UserDataDir)
		if err != nil {
			return nil, fmt.Errorf("resolve user data dir: %w", err)
		}
		opts = append(opts, chromedp.UserDataDir(dir))
	}
	for _, arg := range cfg.Args {
		name, value := parseFlag(arg)
		if name != "" {
			opts = append(opts, chromedp.Flag(name, value))
		}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &ChromeSession{
		Ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     cfg.Timeout,
		navTimeout:  cfg.NavigationTimeout,
		logger:      logger.Named("browser.chromedp"),
	}, nil
}

// parseFlag turns "--name=value" into a chromedp flag; bare flags become true.
func parseFlag(arg string) (string, interface{}) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	if arg == "" {
		return "", nil
	}
	if name, value, ok := strings.Cut(arg, "="); ok {
		return name, value
	}
	return arg, true
}

func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.Ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating to the target URL...", zap.String("url", url))
	if err := s.run(ctx, s.navTimeout, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	return nil
}

func (s *ChromeSession) nodes(ctx context.Context, selector string, by chromedp.QueryOption) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, s.timeout, chromedp.Nodes(selector, &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return nodes, nil
}

func (s *ChromeSession) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	nodes, err := s.nodes(ctx, selector, chromedp.ByQueryAll)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &chromeElement{s: s, node: n, ctx: ctx})
	}
	return out, nil
}

func (s *ChromeSession) Query(ctx context.Context, selector string) (Element, error) {
	nodes, err := s.nodes(ctx, selector, chromedp.ByQuery)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &chromeElement{s: s, node: nodes[0], ctx: ctx}, nil
}

// callOn runs fn with `this` bound to node and decodes its return value into out.
func (s *ChromeSession) callOn(ctx context.Context, node *cdp.Node, fn string, out interface{}) error {
	return s.run(ctx, s.timeout, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithBackendNodeID(node.BackendNodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolve node failed: %w", err)
		}
		if obj == nil || obj.ObjectID == "" {
			return fmt.Errorf("object id is empty (node might be detached)")
		}

		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("script error: %s", exceptionText(exc))
		}
		if out == nil || res == nil || len(res.Value) == 0 {
			return nil
		}
		return json.Unmarshal(res.Value, out)
	}))
}

func exceptionText(exc *runtime.ExceptionDetails) string {
	if exc.Exception != nil && exc.Exception.Description != "" {
		return exc.Exception.Description
	}
	return exc.Text
}

func (s *ChromeSession) callOnSelector(ctx context.Context, selector, fn string) error {
	nodes, err := s.nodes(ctx, selector, chromedp.ByQuery)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s", ErrNoElement, selector)
	}
	return s.callOn(ctx, nodes[0], fn, nil)
}

func jsLiteral(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func (s *ChromeSession) Fill(ctx context.Context, selector, value string) error {
	script := fmt.Sprintf(`function() {
		if (this.scrollIntoViewIfNeeded) {
			this.scrollIntoViewIfNeeded();
		}
		this.focus();
		this.value = %s;
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`, jsLiteral(value))
	return s.callOnSelector(ctx, selector, script)
}

func (s *ChromeSession) Check(ctx context.Context, selector string) error {
	const script = `function() {
		const type = (this.type || '').toLowerCase();
		if (type !== 'checkbox' && type !== 'radio') {
			throw new Error('element is not a checkbox or radio');
		}
		if (!this.checked) {
			this.click();
		}
	}`
	return s.callOnSelector(ctx, selector, script)
}

func (s *ChromeSession) SelectOption(ctx context.Context, selector, value string) error {
	script := fmt.Sprintf(`function() {
		const want = %s;
		if (!this.options) {
			throw new Error('element is not a select');
		}
		const opt = Array.from(this.options).find(o => o.value === want) ||
			Array.from(this.options).find(o => (o.label || o.text || '').trim() === want);
		if (!opt) {
			throw new Error('no option ' + want);
		}
		this.value = opt.value;
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`, jsLiteral(value))
	return s.callOnSelector(ctx, selector, script)
}

func (s *ChromeSession) Capture(ctx context.Context) (*Capture, error) {
	var (
		buf   []byte
		url   string
		title string
	)
	err := s.run(ctx, s.timeout,
		chromedp.Location(&url),
		chromedp.Title(&title),
		chromedp.FullScreenshot(&buf, 70),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return &Capture{URL: url, Title: title, Screenshot: buf, Format: "jpg"}, nil
}

func (s *ChromeSession) Close() error {
	s.cancel()
	s.allocCancel()
	return nil
}

// chromeElement keeps the context of the query that found it, so later reads
// stop with the run.
type chromeElement struct {
	s    *ChromeSession
	node *cdp.Node
	ctx  context.Context
}

func (e *chromeElement) TagName() (string, error) {
	return strings.ToUpper(e.node.NodeName), nil
}

func (e *chromeElement) Attribute(name string) (string, bool, error) {
	v, ok := e.node.Attribute(name)
	return v, ok, nil
}

func (e *chromeElement) InnerText() (string, error) {
	var text string
	err := e.s.callOn(e.ctx, e.node, `function() { return this.innerText; }`, &text)
	return text, err
}

func (e *chromeElement) ClosestLabelText() (string, bool, error) {
	var text *string
	err := e.s.callOn(e.ctx, e.node, `function() {
		const label = this.closest('label');
		return label ? label.innerText : null;
	}`, &text)
	if err != nil || text == nil {
		return "", false, err
	}
	return *text, true, nil
}
