package compile

import (
	"strings"
	"testing"

	"github.com/zplgrid/zplgrid/template"
)

const qrLeftTextRightJSON = `{
  "schema_version": 1,
  "name": "asset_tag",
  "defaults": {
    "leaf_padding_mm": [1, 1, 1, 1],
    "render": {"missing_variables": "error", "emit_ci28": true}
  },
  "layout": {
    "kind": "split",
    "direction": "v",
    "ratio": 0.35,
    "gutter_mm": 2,
    "divider": {"visible": true, "thickness_mm": 0.3},
    "children": [
      {
        "kind": "leaf",
        "elements": [
          {"type": "qr", "data": "{asset_id}", "size_mode": "max", "error_correction": "M"}
        ]
      },
      {
        "kind": "leaf",
        "elements": [
          {"type": "text", "text": "{title}\n{subtitle}", "font_height_mm": 4, "wrap": "word", "fit": "wrap", "max_lines": 2}
        ]
      }
    ]
  }
}`

func mustParse(t *testing.T, data string) *template.Document {
	t.Helper()
	doc, err := template.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestCompileQRLeftTextRightScenario(t *testing.T) {
	doc := mustParse(t, qrLeftTextRightJSON)
	target := template.Target{WidthMM: 74, HeightMM: 26, DPI: 203}
	vars := map[string]string{"asset_id": "A1", "title": "Hi", "subtitle": "World"}

	out, err := Compile(doc, target, vars, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "^XA\n") {
		t.Errorf("output does not start with ^XA: %q", out)
	}
	if !strings.Contains(out, "^CI28") {
		t.Error("expected ^CI28 directive")
	}
	if !strings.Contains(out, "A1") {
		t.Error("expected QR data A1 in output")
	}
	if !strings.Contains(out, `Hi\&World`) {
		t.Errorf("expected text field joining Hi/World with \\&, got: %s", out)
	}
	if !strings.Contains(out, "^BQN") {
		t.Error("expected a QR field")
	}
	if !strings.HasSuffix(out, "^XZ\n") {
		t.Errorf("output does not end with ^XZ: %q", out)
	}
}

func TestCompileIsIdempotentForFixedInputs(t *testing.T) {
	doc := mustParse(t, qrLeftTextRightJSON)
	target := template.Target{WidthMM: 74, HeightMM: 26, DPI: 203}
	vars := map[string]string{"asset_id": "A1", "title": "Hi", "subtitle": "World"}

	out1, err := Compile(doc, target, vars, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out2, err := Compile(doc, target, vars, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out1 != out2 {
		t.Errorf("expected byte-identical output across runs, got:\n%s\nvs\n%s", out1, out2)
	}
}

func TestCompileEmitCI28Toggle(t *testing.T) {
	withCI := mustParse(t, qrLeftTextRightJSON)
	target := template.Target{WidthMM: 74, HeightMM: 26, DPI: 203}
	vars := map[string]string{"asset_id": "A1", "title": "Hi", "subtitle": "World"}

	out, err := Compile(withCI, target, vars, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "^CI28") {
		t.Fatal("expected ^CI28 with emit_ci28 true")
	}

	withCI.Defaults.Render.EmitCI28 = false
	out2, err := Compile(withCI, target, vars, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out2, "^CI28") {
		t.Fatal("did not expect ^CI28 with emit_ci28 false")
	}
}

func TestCompileMissingVariableFailsUnderErrorPolicy(t *testing.T) {
	doc := mustParse(t, qrLeftTextRightJSON)
	target := template.Target{WidthMM: 74, HeightMM: 26, DPI: 203}
	_, err := Compile(doc, target, map[string]string{}, Options{})
	if err == nil {
		t.Fatal("expected error for missing variables")
	}
	if _, ok := err.(*template.MissingVariableError); !ok {
		t.Errorf("expected *template.MissingVariableError, got %T", err)
	}
}

func TestCompileMinSizeUnmetFails(t *testing.T) {
	const tmpl = `{
		"schema_version": 1,
		"layout": {
			"kind": "leaf",
			"elements": [
				{"type": "text", "text": "x", "font_height_mm": 2, "min_size_mm": [50, 10]}
			]
		}
	}`
	doc := mustParse(t, tmpl)
	target := template.Target{WidthMM: 40, HeightMM: 10, DPI: 203}
	_, err := Compile(doc, target, map[string]string{}, Options{})
	if err == nil {
		t.Fatal("expected LayoutError for unmet min_size_mm")
	}
	if _, ok := err.(*template.LayoutError); !ok {
		t.Errorf("expected *template.LayoutError, got %T", err)
	}
}

func TestCompileDataMatrixMaxWithoutDimsRejectedAtParse(t *testing.T) {
	const tmpl = `{
		"schema_version": 1,
		"layout": {
			"kind": "leaf",
			"elements": [
				{"type": "datamatrix", "data": "x", "size_mode": "max"}
			]
		}
	}`
	_, err := template.Parse([]byte(tmpl))
	if err == nil {
		t.Fatal("expected invariant error at parse time for DataMatrix max without dims")
	}
}

func TestCompileShrinkToFitTerminatesAtOneDot(t *testing.T) {
	const tmpl = `{
		"schema_version": 1,
		"layout": {
			"kind": "leaf",
			"elements": [
				{"type": "text", "text": "this text will never possibly fit in such a tiny box no matter how small the font gets", "font_height_mm": 20, "fit": "shrink_to_fit", "wrap": "word", "max_lines": 1}
			]
		}
	}`
	doc := mustParse(t, tmpl)
	target := template.Target{WidthMM: 5, HeightMM: 5, DPI: 203}
	out, err := Compile(doc, target, map[string]string{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "^A0N,1,1") {
		t.Errorf("expected shrink to bottom out at 1x1 dot font, got: %s", out)
	}
}

func TestCompileMinimalTextElementDefaultsToWordWrapAndCentered(t *testing.T) {
	const tmpl = `{
		"schema_version": 1,
		"layout": {
			"kind": "leaf",
			"elements": [
				{"type": "text", "text": "hello there world", "font_height_mm": 4}
			]
		}
	}`
	doc := mustParse(t, tmpl)
	target := template.Target{WidthMM: 20, HeightMM: 20, DPI: 203}
	out, err := Compile(doc, target, map[string]string{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ",9999,0,L,0") {
		t.Errorf("expected fit to default from wrap (max_lines unlimited, left-justified), got: %s", out)
	}
}
