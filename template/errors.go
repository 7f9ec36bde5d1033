package template

import "fmt"

// ErrorKind is the machine-readable discriminator the service layer maps to
// an HTTP status code.
type ErrorKind string

const (
	KindSchema          ErrorKind = "schema_error"
	KindInvariant       ErrorKind = "invariant_error"
	KindMissingVariable ErrorKind = "missing_variable_error"
	KindFormat          ErrorKind = "format_error"
	KindLayout          ErrorKind = "layout_error"
	KindUnsupported     ErrorKind = "unsupported_error"
)

// Issue is one path-qualified problem found while validating a document.
type Issue struct {
	Kind    ErrorKind
	Path    string
	Message string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError aggregates every Issue found during Phase A, which may
// collect several. Phase B stops at the first issue (fail-fast) and returns
// that Issue directly rather than wrapped in a ValidationError.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "template validation failed"
	}
	msg := "template validation failed:"
	for _, issue := range e.Issues {
		msg += fmt.Sprintf("\n  - %s", issue)
	}
	return msg
}

// NewValidationError wraps one or more issues.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// MissingVariableError reports an unresolved placeholder under the "error"
// missing-variable policy.
type MissingVariableError struct {
	Name string
	Path string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("%s: missing variable %q", e.Path, e.Name)
}

func (e *MissingVariableError) Kind() ErrorKind { return KindMissingVariable }

// FormatError reports malformed placeholder syntax (unbalanced braces, bad
// format spec).
type FormatError struct {
	Path    string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *FormatError) Kind() ErrorKind { return KindFormat }

// LayoutError reports a non-positive rect after splits/padding, or an unmet
// min_size constraint.
type LayoutError struct {
	Path    string
	Message string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LayoutError) Kind() ErrorKind { return KindLayout }

// UnsupportedError reports a feature requested by fields that v1 does not
// support.
type UnsupportedError struct {
	Path    string
	Message string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *UnsupportedError) Kind() ErrorKind { return KindUnsupported }

// KindOf extracts the ErrorKind from any error produced by this package, for
// callers (the HTTP boundary) mapping errors to status codes.
func KindOf(err error) (ErrorKind, bool) {
	switch e := err.(type) {
	case *ValidationError:
		if len(e.Issues) > 0 {
			return e.Issues[0].Kind, true
		}
		return KindSchema, true
	case Issue:
		return e.Kind, true
	case *MissingVariableError:
		return e.Kind(), true
	case *FormatError:
		return e.Kind(), true
	case *LayoutError:
		return e.Kind(), true
	case *UnsupportedError:
		return e.Kind(), true
	default:
		return "", false
	}
}
