// Package bind performs placeholder substitution over element string
// fields: `{name}` expansion, `{{`/`}}` escaping, and an optional
// `{name:spec}` format spec, governed by a caller-supplied missing-variable
// policy.
package bind

import (
	"strings"

	"github.com/zplgrid/zplgrid/template"
)

// Variables is the effective name->value map used during one bind pass:
// user-supplied values, with built-in macros filled in for any name the
// user did not provide.
type Variables map[string]string

// Substitute performs a left-to-right scan of text, expanding `{name}` and
// `{name:spec}` placeholders and unescaping `{{`/`}}`. path is used to
// qualify any error raised.
func Substitute(path, text string, vars Variables, policy template.MissingVariablePolicy) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				out.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return "", &template.FormatError{Path: path, Message: "unbalanced '{' in placeholder"}
			}
			inner := text[i+1 : i+1+end]
			i += 1 + end + 1

			name := inner
			spec := ""
			if idx := strings.IndexByte(inner, ':'); idx >= 0 {
				name = inner[:idx]
				spec = inner[idx+1:]
			}
			if name == "" {
				return "", &template.FormatError{Path: path, Message: "empty placeholder name"}
			}

			val, ok := vars[name]
			if !ok {
				if policy == template.MissingVariableEmpty {
					val = ""
				} else {
					return "", &template.MissingVariableError{Name: name, Path: path}
				}
			}

			fs, err := ParseFormatSpec(path, spec)
			if err != nil {
				return "", err
			}
			formatted, err := fs.Apply(path, val)
			if err != nil {
				return "", err
			}
			out.WriteString(formatted)
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				out.WriteByte('}')
				i += 2
				continue
			}
			return "", &template.FormatError{Path: path, Message: "unescaped '}' outside a placeholder"}
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

// EscapeNewlines converts the two-character escape `\n` in already-bound
// text to a real line-feed byte so downstream wrap/measure logic sees real
// lines; the text compiler later joins those lines with the `\&` field-block
// line break when it writes the field data.
func EscapeNewlines(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}
