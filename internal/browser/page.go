package browser

import (
	"context"
	"errors"
	"strings"
)

// ErrNoElement is returned by actions whose selector matches nothing.
var ErrNoElement = errors.New("no element matches selector")

// Element is a handle to one DOM element. Absent attributes are reported
// with ok == false, never as an error.
type Element interface {
	TagName() (string, error)
	Attribute(name string) (value string, ok bool, err error)
	InnerText() (string, error)
	// ClosestLabelText returns the visible text of the nearest <label> ancestor.
	ClosestLabelText() (text string, ok bool, err error)
}

// Document is the read-only query surface of a loaded page.
type Document interface {
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Query returns nil, nil when nothing matches.
	Query(ctx context.Context, selector string) (Element, error)
}

// Actions is the complete set of page mutations the executor may perform.
type Actions interface {
	Fill(ctx context.Context, selector, value string) error
	Check(ctx context.Context, selector string) error
	SelectOption(ctx context.Context, selector, value string) error
}

type Page interface {
	Document
	Actions
	Navigate(ctx context.Context, url string) error
}

// Session is a page whose underlying browser must be released.
type Session interface {
	Page
	Close() error
}

// IDSelector builds an attribute selector matching id exactly, so ids
// containing CSS metacharacters (":", ".", "[") still resolve.
func IDSelector(id string) string {
	return AttrSelector("", "id", id)
}

// AttrSelector builds tag[attr="value"] with value quoted as a CSS string.
func AttrSelector(tag, attr, value string) string {
	return tag + "[" + attr + `="` + cssString(value) + `"]`
}

func cssString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
