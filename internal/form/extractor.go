package form

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/browser"
)

// Extractor reads every input-capable control of a loaded page.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger.Named("form.extractor")}
}

// Extract returns one descriptor per control, in document order. A failure
// while reading a single attribute or label degrades that value to nil; a
// control whose tag cannot be read (detached mid-scan) is logged and skipped.
func (e *Extractor) Extract(ctx context.Context, doc browser.Document) ([]FieldDescriptor, error) {
	elements, err := doc.QueryAll(ctx, Selector)
	if err != nil {
		return nil, fmt.Errorf("query form controls: %w", err)
	}

	labels := NewLabelResolver(doc, e.logger)
	fields := make([]FieldDescriptor, 0, len(elements))

	for i, el := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tag, err := el.TagName()
		if err != nil {
			e.logger.Warn("Skipping control with unreadable tag.", zap.Int("control", i), zap.Error(err))
			continue
		}

		f := FieldDescriptor{Tag: Tag(strings.ToUpper(tag))}
		f.Type = e.attr(el, i, "type")
		f.ID = e.attr(el, i, "id")
		f.Name = e.attr(el, i, "name")
		f.Placeholder = e.attr(el, i, "placeholder")
		f.AriaLabel = e.attr(el, i, "aria-label")
		f.LabelText = labels.Resolve(ctx, el, f.ID)

		fields = append(fields, f)
	}

	e.logger.Info("Extracted form fields.",
		zap.Int("fields", len(fields)),
		zap.Int("targetable", len(Targetable(fields))),
	)
	return fields, nil
}

func (e *Extractor) attr(el browser.Element, index int, name string) *string {
	v, ok, err := el.Attribute(name)
	if err != nil {
		e.logger.Warn("Attribute read failed.",
			zap.Int("control", index),
			zap.String("attribute", name),
			zap.Error(err),
		)
		return nil
	}
	if !ok {
		return nil
	}
	return str(v)
}
