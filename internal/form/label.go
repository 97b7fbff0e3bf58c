package form

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/browser"
)

// LabelResolver finds the human-readable caption of a control.
type LabelResolver struct {
	doc    browser.Document
	logger *zap.Logger
}

func NewLabelResolver(doc browser.Document, logger *zap.Logger) *LabelResolver {
	return &LabelResolver{doc: doc, logger: logger}
}

// Resolve returns the explicit label[for=id] text when the field has an id and
// such a label has text, otherwise the non-empty text of the wrapping label,
// otherwise nil.
// Lookup errors are logged and treated as "no label".
func (r *LabelResolver) Resolve(ctx context.Context, el browser.Element, id *string) *string {
	if id != nil && *id != "" {
		if text, ok := r.explicit(ctx, *id); ok {
			return &text
		}
	}

	text, ok, err := el.ClosestLabelText()
	if err != nil {
		r.logger.Debug("Wrapping label lookup failed.", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

func (r *LabelResolver) explicit(ctx context.Context, id string) (string, bool) {
	label, err := r.doc.Query(ctx, browser.AttrSelector("label", "for", id))
	if err != nil {
		r.logger.Debug("Explicit label lookup failed.", zap.String("id", id), zap.Error(err))
		return "", false
	}
	if label == nil {
		return "", false
	}
	text, err := label.InnerText()
	if err != nil {
		r.logger.Debug("Explicit label text unavailable.", zap.String("id", id), zap.Error(err))
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}
