package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// AppliedAction records a mutation performed on a StaticPage.
type AppliedAction struct {
	Verb     string
	Selector string
	Value    string
}

// StaticPage is a Page over a parsed HTML document. Actions mutate the
// in-memory DOM only, which makes it suitable for offline inspection and tests.
type StaticPage struct {
	doc     *goquery.Document
	applied []AppliedAction
}

func NewStaticPage(r io.Reader) (*StaticPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &StaticPage{doc: doc}, nil
}

func LoadStaticPage(path string) (*StaticPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewStaticPage(f)
}

// Navigate is a no-op: the document is fixed at construction.
func (p *StaticPage) Navigate(ctx context.Context, _ string) error {
	return ctx.Err()
}

// find compiles selector once and returns its matches in document order,
// including for grouped selectors.
func (p *StaticPage) find(selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return p.doc.FindMatcher(m), nil
}

func (p *StaticPage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticElement{sel: s})
	})
	return out, nil
}

func (p *StaticPage) Query(ctx context.Context, selector string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	match := matches.First()
	if match.Length() == 0 {
		return nil, nil
	}
	return &staticElement{sel: match}, nil
}

func (p *StaticPage) target(ctx context.Context, selector string) (*goquery.Selection, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	matches, err := p.find(selector)
	if err != nil {
		return nil, "", err
	}
	match := matches.First()
	if match.Length() == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrNoElement, selector)
	}
	return match, strings.ToUpper(goquery.NodeName(match)), nil
}

func (p *StaticPage) Fill(ctx context.Context, selector, value string) error {
	el, tag, err := p.target(ctx, selector)
	if err != nil {
		return err
	}
	switch tag {
	case "TEXTAREA":
		el.SetText(value)
	case "INPUT":
		switch strings.ToLower(el.AttrOr("type", "text")) {
		case "checkbox", "radio", "submit", "button", "file", "image", "reset":
			return fmt.Errorf("cannot fill input of type %q: %s", el.AttrOr("type", ""), selector)
		}
		el.SetAttr("value", value)
	default:
		return fmt.Errorf("cannot fill <%s>: %s", strings.ToLower(tag), selector)
	}
	p.applied = append(p.applied, AppliedAction{Verb: "fill", Selector: selector, Value: value})
	return nil
}

func (p *StaticPage) Check(ctx context.Context, selector string) error {
	el, tag, err := p.target(ctx, selector)
	if err != nil {
		return err
	}
	typ := strings.ToLower(el.AttrOr("type", ""))
	if tag != "INPUT" || (typ != "checkbox" && typ != "radio") {
		return fmt.Errorf("element is not a checkbox or radio: %s", selector)
	}
	el.SetAttr("checked", "checked")
	p.applied = append(p.applied, AppliedAction{Verb: "check", Selector: selector})
	return nil
}

func (p *StaticPage) SelectOption(ctx context.Context, selector, value string) error {
	el, tag, err := p.target(ctx, selector)
	if err != nil {
		return err
	}
	if tag != "SELECT" {
		return fmt.Errorf("element is not a select: %s", selector)
	}

	options := el.Find("option")
	chosen := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
		v, ok := o.Attr("value")
		return ok && v == value
	})
	if chosen.Length() == 0 {
		chosen = options.FilterFunction(func(_ int, o *goquery.Selection) bool {
			return strings.TrimSpace(o.Text()) == value
		})
	}
	if chosen.Length() == 0 {
		return fmt.Errorf("no option %q in %s", value, selector)
	}

	options.RemoveAttr("selected")
	chosen.First().SetAttr("selected", "selected")
	p.applied = append(p.applied, AppliedAction{Verb: "select_option", Selector: selector, Value: value})
	return nil
}

// Applied returns the actions performed so far, in order.
func (p *StaticPage) Applied() []AppliedAction {
	out := make([]AppliedAction, len(p.applied))
	copy(out, p.applied)
	return out
}

// Value returns the current value attribute of the first element matching
// selector. An invalid selector matches nothing.
func (p *StaticPage) Value(selector string) (string, bool) {
	matches, err := p.find(selector)
	if err != nil {
		return "", false
	}
	match := matches.First()
	if match.Length() == 0 {
		return "", false
	}
	if strings.EqualFold(goquery.NodeName(match), "textarea") {
		return match.Text(), true
	}
	return match.Attr("value")
}

type staticElement struct {
	sel *goquery.Selection
}

func (e *staticElement) TagName() (string, error) {
	return strings.ToUpper(goquery.NodeName(e.sel)), nil
}

func (e *staticElement) Attribute(name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e *staticElement) InnerText() (string, error) {
	return collapseSpace(e.sel.Text()), nil
}

func (e *staticElement) ClosestLabelText() (string, bool, error) {
	label := e.sel.Closest("label")
	if label.Length() == 0 {
		return "", false, nil
	}
	return collapseSpace(label.Text()), true, nil
}

// collapseSpace approximates innerText for a document that has no layout.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
