package template

import "testing"

func TestResolveDefaultsFillsLeafPadding(t *testing.T) {
	doc, err := Parse([]byte(qrLeftTextRightJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved := ResolveDefaults(doc)
	leaf0 := resolved.Layout.Children[0]
	if leaf0.PaddingMM == nil {
		t.Fatal("expected padding to be filled from defaults.leaf_padding_mm")
	}
	if *leaf0.PaddingMM != (Padding{Top: 1, Right: 1, Bottom: 1, Left: 1}) {
		t.Errorf("padding = %+v, want all 1mm", *leaf0.PaddingMM)
	}
}

func TestResolveDefaultsDoesNotMutateInput(t *testing.T) {
	doc, err := Parse([]byte(qrLeftTextRightJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := doc.Layout.Children[0].PaddingMM
	_ = ResolveDefaults(doc)
	after := doc.Layout.Children[0].PaddingMM
	if before != after {
		t.Error("ResolveDefaults mutated the input document's leaf padding pointer")
	}
}

func TestElementDefaultsElementWinsOnConflict(t *testing.T) {
	raw := `{
	  "schema_version": 1,
	  "defaults": {"text": {"align_h": "center"}},
	  "layout": {"kind": "leaf", "elements": [
	    {"type": "text", "text": "hi", "font_height_mm": 3, "align_h": "right"}
	  ]}
	}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved := ResolveDefaults(doc)
	txt := resolved.Layout.Elements[0].(TextElement)
	if txt.AlignH != AlignHRight {
		t.Errorf("align_h = %v, want right (element should win over default)", txt.AlignH)
	}
}

func TestElementDefaultsAppliedWhenAbsent(t *testing.T) {
	raw := `{
	  "schema_version": 1,
	  "defaults": {"text": {"align_h": "center"}},
	  "layout": {"kind": "leaf", "elements": [
	    {"type": "text", "text": "hi", "font_height_mm": 3}
	  ]}
	}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved := ResolveDefaults(doc)
	txt := resolved.Layout.Elements[0].(TextElement)
	if txt.AlignH != AlignHCenter {
		t.Errorf("align_h = %v, want center (from defaults.text)", txt.AlignH)
	}
}
