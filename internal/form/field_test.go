package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldDescriptor_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		field    FieldDescriptor
		fillable bool
		toggle   bool
	}{
		{"bare input", FieldDescriptor{Tag: TagInput}, true, false},
		{"email", FieldDescriptor{Tag: TagInput, Type: ptr("email")}, true, false},
		{"checkbox", FieldDescriptor{Tag: TagInput, Type: ptr("Checkbox")}, false, true},
		{"radio", FieldDescriptor{Tag: TagInput, Type: ptr("radio")}, false, true},
		{"hidden", FieldDescriptor{Tag: TagInput, Type: ptr("hidden")}, false, false},
		{"textarea", FieldDescriptor{Tag: TagTextarea}, true, false},
		{"select", FieldDescriptor{Tag: TagSelect}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fillable, tt.field.IsFillable())
			assert.Equal(t, tt.toggle, tt.field.IsToggle())
		})
	}
}

func TestFieldDescriptor_Target(t *testing.T) {
	assert.Equal(t, "#email1", FieldDescriptor{Tag: TagInput, ID: ptr("email1")}.Target())
	assert.Equal(t, "", FieldDescriptor{Tag: TagInput, ID: ptr("")}.Target())
	assert.Equal(t, "", FieldDescriptor{Tag: TagInput}.Target())

	fields := []FieldDescriptor{
		{Tag: TagInput, ID: ptr("a")},
		{Tag: TagInput},
		{Tag: TagSelect, ID: ptr("b")},
	}
	got := Targetable(fields)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", *got[1].ID)
}

func TestIsProtected(t *testing.T) {
	tests := []struct {
		name  string
		field FieldDescriptor
		want  bool
	}{
		{"signature date label", FieldDescriptor{Tag: TagInput, LabelText: ptr("Attorney Signature Date")}, true},
		{"signature name", FieldDescriptor{Tag: TagInput, Name: ptr("applicant_signature")}, true},
		{"attestation aria", FieldDescriptor{Tag: TagInput, AriaLabel: ptr("Attestation of accuracy")}, true},
		{"i certify", FieldDescriptor{Tag: TagInput, Type: ptr("checkbox"), LabelText: ptr("I certify that the above is true")}, true},
		{"sig date id", FieldDescriptor{Tag: TagInput, ID: ptr("sig_date")}, true},
		{"date signed", FieldDescriptor{Tag: TagInput, LabelText: ptr("Date signed")}, true},
		{"e-sign placeholder", FieldDescriptor{Tag: TagInput, Placeholder: ptr("E-Sign here")}, true},
		{"design", FieldDescriptor{Tag: TagInput, LabelText: ptr("Preferred design")}, false},
		{"sign up email", FieldDescriptor{Tag: TagInput, LabelText: ptr("Email for signup")}, false},
		{"date of birth", FieldDescriptor{Tag: TagInput, ID: ptr("dob"), LabelText: ptr("Date of Birth")}, false},
		{"no hints", FieldDescriptor{Tag: TagSelect}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProtected(tt.field))
		})
	}
}

func TestProtected_SkipsUntargetable(t *testing.T) {
	fields := []FieldDescriptor{
		{Tag: TagInput, LabelText: ptr("Signature")},
		{Tag: TagInput, ID: ptr("sig"), LabelText: ptr("Signature")},
		{Tag: TagInput, ID: ptr("name"), LabelText: ptr("Name")},
	}
	got := Protected(fields)
	assert.Len(t, got, 1)
	assert.Equal(t, "sig", *got[0].ID)
}
