package form

import "regexp"

// protectedPattern matches captions of signature, signature-date and attestation fields.
var protectedPattern = regexp.MustCompile(`(?i)signature|\battest|\bi certify\b|\bsign here\b|\be-?sign(ed)?\b|\bsig[_-]?date\b|\bdate[_ -]?signed\b|\bsigned[_ -]?(on|date)\b`)

// IsProtected reports whether the field must never be targeted by an action,
// judged from its label, name, id, aria-label and placeholder.
func IsProtected(f FieldDescriptor) bool {
	for _, s := range []*string{f.LabelText, f.AriaLabel, f.Name, f.ID, f.Placeholder} {
		if s != nil && protectedPattern.MatchString(*s) {
			return true
		}
	}
	return false
}

// Protected returns the targetable fields that are protected, preserving order.
func Protected(fields []FieldDescriptor) []FieldDescriptor {
	var out []FieldDescriptor
	for _, f := range fields {
		if f.Targetable() && IsProtected(f) {
			out = append(out, f)
		}
	}
	return out
}
