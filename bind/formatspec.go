package bind

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/zplgrid/zplgrid/template"
)

// FormatSpec is the minimal `{name:spec}` grammar spec.md §4.3/§9 calls for:
// an optional zero-padded width, an optional precision, and an optional
// type letter (s for string, d for integer, f for float). Anything beyond
// this is a FormatError, not silently inherited from a host formatter.
type FormatSpec struct {
	Width     *int    `parser:"@Int?"`
	Precision *int    `parser:"('.' @Int)?"`
	Type      *string `parser:"@Ident?"`

	zeroPad bool `parser:"-"`
}

var (
	formatSpecLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Int", Pattern: `\d+`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Ident", Pattern: `[a-zA-Z]+`},
	})

	formatSpecParser = participle.MustBuild[FormatSpec](
		participle.Lexer(formatSpecLexer),
		participle.UseLookahead(2),
	)
)

// ParseFormatSpec parses the text following the ':' in a `{name:spec}`
// placeholder. An empty spec is valid and means "no formatting".
func ParseFormatSpec(path, spec string) (*FormatSpec, error) {
	if spec == "" {
		return &FormatSpec{}, nil
	}
	fs, err := formatSpecParser.ParseString("", spec)
	if err != nil {
		return nil, &template.FormatError{Path: path, Message: fmt.Sprintf("invalid format spec %q: %v", spec, err)}
	}
	// A zero-padded width is written with a leading '0' in the spec text;
	// the lexer's Int token already folds that into the integer value, so
	// the leading-zero flag is recovered from the raw text instead.
	if fs.Width != nil && strings.HasPrefix(spec, "0") {
		fs.zeroPad = true
	}
	return fs, nil
}

// Apply renders value according to the spec: left-pads it to Width (with
// '0' when the width was written with a leading zero, else spaces) and
// leaves the value alone when the spec is empty. A value longer than Width
// is not truncated, Precision is parsed but not applied, and the d/f types
// do not convert the value.
func (fs *FormatSpec) Apply(path, value string) (string, error) {
	out := value
	if fs.Type != nil {
		switch *fs.Type {
		case "s", "":
			// no conversion needed, value is already a string
		case "d", "f":
			// value arrives as a string from the caller's variable map;
			// numeric types only affect padding, not reinterpretation.
		default:
			return "", &template.FormatError{Path: path, Message: fmt.Sprintf("unsupported format type %q", *fs.Type)}
		}
	}
	if fs.Width != nil && len(out) < *fs.Width {
		pad := " "
		if fs.zeroPad {
			pad = "0"
		}
		out = strings.Repeat(pad, *fs.Width-len(out)) + out
	}
	return out, nil
}

