package form

import "strings"

// Tag is the element kind of an input-capable control.
type Tag string

const (
	TagInput    Tag = "INPUT"
	TagSelect   Tag = "SELECT"
	TagTextarea Tag = "TEXTAREA"
)

// Selector matches every input-capable control on a page.
const Selector = "input, select, textarea"

// FieldDescriptor describes one form control. Only Tag is always set;
// the remaining attributes serialize as null when absent.
type FieldDescriptor struct {
	Tag         Tag     `json:"tag"`
	Type        *string `json:"type"`
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Placeholder *string `json:"placeholder"`
	AriaLabel   *string `json:"aria_label"`
	LabelText   *string `json:"label_text"`
}

// Targetable reports whether actions can address the field, i.e. it has a non-empty id.
func (f FieldDescriptor) Targetable() bool {
	return f.ID != nil && *f.ID != ""
}

// Target returns the action selector for the field ("#id"), or "" when the field has no id.
func (f FieldDescriptor) Target() string {
	if !f.Targetable() {
		return ""
	}
	return "#" + *f.ID
}

// InputType is the lower-cased type attribute; inputs without one default to "text".
func (f FieldDescriptor) InputType() string {
	if f.Type != nil && *f.Type != "" {
		return strings.ToLower(*f.Type)
	}
	if f.Tag == TagInput {
		return "text"
	}
	return ""
}

// IsToggle reports whether the field is a checkbox or radio button.
func (f FieldDescriptor) IsToggle() bool {
	if f.Tag != TagInput {
		return false
	}
	t := f.InputType()
	return t == "checkbox" || t == "radio"
}

// IsFillable reports whether the field accepts free text.
func (f FieldDescriptor) IsFillable() bool {
	switch f.Tag {
	case TagTextarea:
		return true
	case TagInput:
		switch f.InputType() {
		case "checkbox", "radio", "submit", "button", "reset", "image", "file", "hidden":
			return false
		}
		return true
	default:
		return false
	}
}

// Targetable returns the fields that carry an id, preserving order.
func Targetable(fields []FieldDescriptor) []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if f.Targetable() {
			out = append(out, f)
		}
	}
	return out
}

func str(s string) *string { return &s }
