package llm

import "regexp"

// fencePattern matches a code-fence marker. A word after the marker is a
// language tag only when nothing but whitespace follows it on that line, so
// inline fences such as ```fill('#a', 'b')``` keep their content.
var fencePattern = regexp.MustCompile("(?m)```(?:[A-Za-z0-9_+.-]+[ \t]*\r?$)?")

// Sanitize removes code-fence markers from model output and leaves every other
// byte untouched. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	if !fencePattern.MatchString(raw) {
		return raw
	}
	return fencePattern.ReplaceAllLiteralString(raw, "")
}
