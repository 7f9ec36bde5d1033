// Package macro resolves the built-in, reserved-underscore-prefix variables
// enumerated in the zplgrid external interface: time-valued macros, random
// identifiers, context-injected ids, and scoped print counters. Macros are
// only computed for names the caller's own variable map doesn't already
// supply.
package macro

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CounterPeeker is the read-only view of a counter store the binder needs;
// the core never writes, so only Peek is required here.
type CounterPeeker interface {
	Peek(scope string) (int, error)
}

// Context carries the request-scoped values macros may need: the template
// name and printer/draft ids (empty if not supplied), a fixed "now" (so a
// single compile sees one timestamp throughout), and the counter store.
type Context struct {
	TemplateName string
	PrinterID    string
	DraftID      string
	Now          time.Time
	Counters     CounterPeeker
}

// Resolve computes every built-in macro whose name is in used but absent
// from existing, using ctx for the context-dependent ones. The
// context-injected ids (_draft_id, _printer_id, _template_name) resolve to
// the empty string when ctx does not supply them.
func Resolve(used map[string]struct{}, existing map[string]string, ctx Context) (map[string]string, error) {
	out := map[string]string{}
	need := func(name string) bool {
		if _, ok := existing[name]; ok {
			return false
		}
		_, ok := used[name]
		return ok
	}

	now := ctx.Now
	if need("_now_iso") {
		out["_now_iso"] = now.Format(time.RFC3339)
	}
	if need("_date_yyyy_mm_dd") {
		out["_date_yyyy_mm_dd"] = now.Format("2006-01-02")
	}
	if need("_date_dd_mm_yyyy") {
		out["_date_dd_mm_yyyy"] = now.Format("02.01.2006")
	}
	if need("_time_hh_mm") {
		out["_time_hh_mm"] = now.Format("15:04")
	}
	if need("_time_hh_mm_ss") {
		out["_time_hh_mm_ss"] = now.Format("15:04:05")
	}
	if need("_timestamp_ms") {
		out["_timestamp_ms"] = fmt.Sprintf("%d", now.UnixMilli())
	}
	if need("_uuid") {
		out["_uuid"] = uuid.NewString()
	}
	if need("_short_id") {
		out["_short_id"] = shortID()
	}
	if need("_draft_id") {
		out["_draft_id"] = ctx.DraftID
	}
	if need("_printer_id") {
		out["_printer_id"] = ctx.PrinterID
	}
	if need("_template_name") {
		out["_template_name"] = ctx.TemplateName
	}

	if err := resolveCounters(used, existing, ctx, now, out); err != nil {
		return nil, err
	}
	return out, nil
}

// shortID is an 8-character base-32 rendering of a random 40-bit value,
// matching the original's `uuid4().hex[:8]` in entropy (first 8 hex nibbles
// of a v4 UUID is 32 bits of randomness; base-32 of 40 random bits gives a
// comparable, URL-safe 8-character id).
func shortID() string {
	id := uuid.New()
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(id[:5]))
}

type scopedMacro struct {
	name string
	key  string
}

// counterScopeTable lists every scoped-counter macro reachable in ctx: the
// always-present global/daily pair, plus printer- and template-scoped pairs
// once a printer id or template name is known.
func counterScopeTable(ctx Context, today string) []scopedMacro {
	scopes := []scopedMacro{
		{"_counter_global", "global"},
		{"_counter_daily", "daily:" + today},
	}
	if ctx.PrinterID != "" {
		scopes = append(scopes,
			scopedMacro{"_counter_printer", "printer:" + ctx.PrinterID},
			scopedMacro{"_counter_printer_daily", "printer_daily:" + ctx.PrinterID + ":" + today},
		)
	}
	if ctx.TemplateName != "" {
		scopes = append(scopes,
			scopedMacro{"_counter_template", "template:" + ctx.TemplateName},
			scopedMacro{"_counter_template_daily", "template_daily:" + ctx.TemplateName + ":" + today},
		)
	}
	return scopes
}

func resolveCounters(used map[string]struct{}, existing map[string]string, ctx Context, now time.Time, out map[string]string) error {
	today := now.Format("2006-01-02")
	scopes := counterScopeTable(ctx, today)

	any := false
	for _, sc := range scopes {
		if _, ok := existing[sc.name]; ok {
			continue
		}
		if _, ok := used[sc.name]; ok {
			any = true
			break
		}
	}
	if !any || ctx.Counters == nil {
		return nil
	}

	for _, sc := range scopes {
		if _, ok := existing[sc.name]; ok {
			continue
		}
		if _, ok := used[sc.name]; !ok {
			continue
		}
		v, err := ctx.Counters.Peek(sc.key)
		if err != nil {
			return err
		}
		out[sc.name] = fmt.Sprintf("%d", v)
	}
	return nil
}

// CounterScopesUsed returns the counter-store scope keys that a document
// actually references (and that the caller did not already supply a
// value for), in the same naming scheme resolveCounters reads from. The
// print path commits exactly these scopes on a successful submission,
// while the render/preview path only ever peeks them.
func CounterScopesUsed(used map[string]struct{}, existing map[string]string, ctx Context, now time.Time) []string {
	today := now.Format("2006-01-02")
	var keys []string
	for _, sc := range counterScopeTable(ctx, today) {
		if _, ok := existing[sc.name]; ok {
			continue
		}
		if _, ok := used[sc.name]; !ok {
			continue
		}
		keys = append(keys, sc.key)
	}
	return keys
}
