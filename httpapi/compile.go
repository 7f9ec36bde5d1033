package httpapi

import (
	"encoding/json"

	"github.com/zplgrid/zplgrid/compile"
	"github.com/zplgrid/zplgrid/macro"
	"github.com/zplgrid/zplgrid/template"
)

// compileResult bundles a successful compile with the bits a caller
// downstream (the print path) needs to finalize: which counter scopes were
// consulted, so it can commit exactly those on a successful submission.
type compileResult struct {
	ZPL           string
	CounterScopes []string
}

// compileRequest parses rawTemplate, resolves built-in macros against
// variables, and compiles the result. It always forces the "error"
// missing-variable policy regardless of what the template itself declares
// — every HTTP-facing render is a client-visible operation, so a silently
// blanked-out field is never the right behaviour here even if the
// template's own default (used by e.g. a batch job) is "empty".
func (s *Server) compileRequest(rawTemplate json.RawMessage, target targetInput, variables map[string]string, printerID, draftID string, debug bool) (compileResult, error) {
	doc, err := template.Parse(rawTemplate)
	if err != nil {
		return compileResult{}, err
	}
	doc.Defaults.Render.MissingVariables = template.MissingVariablePolicyError

	now := s.now()
	used := macro.CollectUsed(doc.Layout)
	ctx := macro.Context{
		TemplateName: doc.Name,
		PrinterID:    printerID,
		DraftID:      draftID,
		Now:          now,
		Counters:     s.Counters,
	}
	resolved, err := macro.Resolve(used, variables, ctx)
	if err != nil {
		return compileResult{}, err
	}

	merged := make(map[string]string, len(variables)+len(resolved))
	for k, v := range variables {
		merged[k] = v
	}
	for k, v := range resolved {
		merged[k] = v
	}

	zpl, err := compile.Compile(doc, target.toTarget(), merged, compile.Options{Debug: debug})
	if err != nil {
		return compileResult{}, err
	}

	var scopes []string
	if s.Counters != nil {
		scopes = macro.CounterScopesUsed(used, variables, ctx, now)
	}
	return compileResult{ZPL: zpl, CounterScopes: scopes}, nil
}
