package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nbenliogludev/go-form-filler/internal/form"
	"github.com/nbenliogludev/go-form-filler/internal/userdata"
)

const fillInstructions = `
You are a web form filling agent.

You will be given:
1. Structured metadata for the fields of a web form.
2. Structured user data for one or more people and any additional information.

Your job is to match the user data to the form fields using the field labels and
attributes, and to output the actions that fill the form.

### Field metadata
Each field has:
- tag: INPUT, TEXTAREA or SELECT
- type: input type such as text, checkbox, tel, email (null for SELECT and TEXTAREA)
- id: the HTML id; the only valid selector for the field is #<id>
- name, placeholder, aria_label: optional hints
- label_text: the visible label, the strongest hint of what the field means

### Allowed actions
Output one action per line, using exactly one of:
fill('#id', 'value')
check('#id')
select_option('#id', 'value')

### Rules
- Use fill for text, email, tel, date, number inputs and for textareas.
- Use check for a checkbox or radio button only when the matching value is true, yes or 'Y'.
  If the value is false, no or 'N', output nothing for that field. Never fill or select a checkbox.
- Use select_option for SELECT fields, with the option value or visible option text.
- Look at nested records and at keys such as "additional_info" for values.
- If a field does not clearly match any user data, skip it. Do not guess.
- Only use ids that appear in the field metadata.
- NEVER output an action for a signature, signature date or attestation field, whatever the user data says.
- Quote values with single quotes and escape a single quote inside a value as \'.
- Output only action lines. No code fences, comments, explanations or blank prose.
`

// BuildFillPrompt renders the instruction document for one form. Fields
// without an id are left out since no action can address them. The output
// depends only on its inputs.
func BuildFillPrompt(fields []form.FieldDescriptor, record userdata.Record) (string, error) {
	targetable := form.Targetable(fields)

	fieldJSON, err := json.MarshalIndent(targetable, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}

	var dataJSON bytes.Buffer
	if err := json.Indent(&dataJSON, record.JSON(), "", "  "); err != nil {
		return "", fmt.Errorf("indent user data: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimLeft(fillInstructions, "\n"))

	if protected := form.Protected(targetable); len(protected) > 0 {
		sb.WriteString("\n### Forbidden fields\nThese selectors must never appear in your output:\n")
		for _, f := range protected {
			sb.WriteString("- " + f.Target() + "\n")
		}
	}

	sb.WriteString("\n### Form field metadata (JSON)\n")
	sb.Write(fieldJSON)
	sb.WriteString("\n\n### User data (JSON)\n")
	sb.Write(dataJSON.Bytes())
	sb.WriteString("\n")

	return sb.String(), nil
}
