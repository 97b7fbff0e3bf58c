package agent

import (
	"fmt"
	"strings"
	"unicode"
)

// Verb is one of the three operations an action line may perform.
type Verb string

const (
	VerbFill         Verb = "fill"
	VerbCheck        Verb = "check"
	VerbSelectOption Verb = "select_option"
)

// arity is the number of string arguments each verb takes.
var arity = map[Verb]int{
	VerbFill:         2,
	VerbCheck:        1,
	VerbSelectOption: 2,
}

// Action is one parsed action line.
type Action struct {
	Verb     Verb
	Selector string
	Value    string
	// Line is the 1-based line number in the generated text.
	Line int
	Raw  string
}

// TargetID is the element id addressed by the selector.
func (a Action) TargetID() string {
	return strings.TrimPrefix(a.Selector, "#")
}

func (a Action) String() string {
	if a.Verb == VerbCheck {
		return fmt.Sprintf("%s(%s)", a.Verb, quote(a.Selector))
	}
	return fmt.Sprintf("%s(%s, %s)", a.Verb, quote(a.Selector), quote(a.Value))
}

// Rejection is a line that was not executed, with the reason.
type Rejection struct {
	Line   int
	Raw    string
	Reason string
}

// ParseActions splits generated text into actions. Blank lines are skipped;
// every other line that is not a well-formed action is returned as a rejection.
func ParseActions(text string) ([]Action, []Rejection) {
	var (
		actions  []Action
		rejected []Rejection
	)
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		a, err := ParseLine(raw)
		if err != nil {
			rejected = append(rejected, Rejection{Line: i + 1, Raw: raw, Reason: err.Error()})
			continue
		}
		a.Line = i + 1
		actions = append(actions, a)
	}
	return actions, rejected
}

// ParseLine parses a single action such as fill('#email', 'a@b.com').
// A leading "page." receiver and a trailing semicolon are tolerated.
func ParseLine(line string) (Action, error) {
	p := &lineParser{src: strings.TrimSpace(line)}

	p.consume("page.")
	name := p.ident()
	verb := Verb(name)
	n, ok := arity[verb]
	if !ok {
		if name == "" {
			return Action{}, fmt.Errorf("not an action")
		}
		return Action{}, fmt.Errorf("unsupported verb %q", name)
	}

	p.skipSpace()
	if !p.consume("(") {
		return Action{}, fmt.Errorf("expected '(' after %s", name)
	}

	args := make([]string, 0, n)
	for len(args) < n {
		if len(args) > 0 {
			p.skipSpace()
			if !p.consume(",") {
				return Action{}, fmt.Errorf("%s takes %d arguments", name, n)
			}
		}
		p.skipSpace()
		s, err := p.str()
		if err != nil {
			return Action{}, err
		}
		args = append(args, s)
	}

	p.skipSpace()
	if !p.consume(")") {
		return Action{}, fmt.Errorf("%s takes %d arguments", name, n)
	}
	p.skipSpace()
	p.consume(";")
	p.skipSpace()
	if !p.done() {
		return Action{}, fmt.Errorf("unexpected trailing text %q", p.rest())
	}

	sel := args[0]
	if !strings.HasPrefix(sel, "#") || len(sel) == 1 {
		return Action{}, fmt.Errorf("selector %q is not of the form #id", sel)
	}

	a := Action{Verb: verb, Selector: sel, Raw: line}
	if n == 2 {
		a.Value = args[1]
	}
	return a, nil
}

type lineParser struct {
	src string
	pos int
}

func (p *lineParser) done() bool   { return p.pos >= len(p.src) }
func (p *lineParser) rest() string { return p.src[p.pos:] }

func (p *lineParser) consume(tok string) bool {
	if strings.HasPrefix(p.rest(), tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *lineParser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) ident() string {
	start := p.pos
	for !p.done() {
		c := rune(p.src[p.pos])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// str reads a single- or double-quoted literal with backslash escapes.
func (p *lineParser) str() (string, error) {
	if p.done() {
		return "", fmt.Errorf("expected string argument")
	}
	q := p.src[p.pos]
	if q != '\'' && q != '"' {
		return "", fmt.Errorf("expected quoted string at %q", p.rest())
	}
	p.pos++

	var b strings.Builder
	for !p.done() {
		c := p.src[p.pos]
		switch {
		case c == q:
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.done() {
				return "", fmt.Errorf("unterminated escape")
			}
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(e)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string")
}

// quote renders s as a single-quoted literal that ParseLine reads back.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}
