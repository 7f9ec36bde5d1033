package template

import (
	"encoding/json"
	"fmt"
)

// validator carries Phase A state: the accumulated shape issues.
type validator struct {
	issues []Issue
}

func (v *validator) fail(path, format string, args ...any) {
	v.issues = append(v.issues, Issue{Kind: KindSchema, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) parseDocument(raw *rawDocument) *Document {
	doc := &Document{}

	if raw.SchemaVersion == nil {
		v.fail("$", "schema_version is required")
	} else if *raw.SchemaVersion != 1 {
		v.fail("$.schema_version", "must be 1, got %d", *raw.SchemaVersion)
	} else {
		doc.SchemaVersion = 1
	}

	if raw.Name != nil {
		doc.Name = *raw.Name
	}

	doc.Defaults = Defaults{
		Render: RenderDefaults{
			MissingVariables: MissingVariablePolicyError,
			EmitCI28:         true,
		},
	}
	if len(raw.Defaults) > 0 {
		var rd rawDefaults
		if err := strictUnmarshal(raw.Defaults, &rd); err != nil {
			v.fail("$.defaults", "invalid shape: %v", err)
		} else {
			doc.Defaults = v.parseDefaults("$.defaults", &rd)
		}
	}

	if len(raw.Layout) == 0 {
		v.fail("$", "layout is required")
		return doc
	}
	doc.Layout = v.parseNode("layout", raw.Layout)
	return doc
}

func (v *validator) parseDefaults(path string, rd *rawDefaults) Defaults {
	d := Defaults{
		Text:   rd.Text,
		Code2D: rd.Code2D,
		Image:  rd.Image,
		Render: RenderDefaults{MissingVariables: MissingVariablePolicyError, EmitCI28: true},
	}
	if rd.LeafPaddingMM != nil {
		p, ok := v.parsePaddingSlice(path+".leaf_padding_mm", rd.LeafPaddingMM)
		if ok {
			d.LeafPaddingMM = p
		}
	}
	if rd.Render != nil {
		if rd.Render.MissingVariables != nil {
			switch *rd.Render.MissingVariables {
			case "error":
				d.Render.MissingVariables = MissingVariablePolicyError
			case "empty":
				d.Render.MissingVariables = MissingVariableEmpty
			default:
				v.fail(path+".render.missing_variables", "must be error or empty, got %q", *rd.Render.MissingVariables)
			}
		}
		if rd.Render.EmitCI28 != nil {
			d.Render.EmitCI28 = *rd.Render.EmitCI28
		}
		if rd.Render.DebugPaddingGuides != nil {
			d.Render.DebugPaddingGuides = *rd.Render.DebugPaddingGuides
		}
		if rd.Render.DebugGutterGuides != nil {
			d.Render.DebugGutterGuides = *rd.Render.DebugGutterGuides
		}
	}
	return d
}

func (v *validator) parsePaddingSlice(path string, vals []float64) (Padding, bool) {
	if len(vals) != 4 {
		v.fail(path, "must be [top, right, bottom, left], got %d values", len(vals))
		return Padding{}, false
	}
	for i, name := range [4]string{"top", "right", "bottom", "left"} {
		if vals[i] < 0 {
			v.fail(path, "%s must be >= 0, got %g", name, vals[i])
			return Padding{}, false
		}
	}
	return Padding{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, true
}

func (v *validator) parseSizeSlice(path string, vals []float64) (Size, bool) {
	if len(vals) != 2 {
		v.fail(path, "must be [width, height], got %d values", len(vals))
		return Size{}, false
	}
	if vals[0] <= 0 || vals[1] <= 0 {
		v.fail(path, "width and height must be > 0")
		return Size{}, false
	}
	return Size{Width: vals[0], Height: vals[1]}, true
}

func (v *validator) parseNode(path string, raw json.RawMessage) *Node {
	var rn rawNode
	if err := strictUnmarshal(raw, &rn); err != nil {
		v.fail(path, "invalid shape: %v", err)
		return nil
	}

	switch rn.Kind {
	case "split":
		return v.parseSplit(path, &rn)
	case "leaf":
		return v.parseLeaf(path, &rn)
	case "":
		v.fail(path, "kind is required (split or leaf)")
		return nil
	default:
		v.fail(path, "unknown kind %q", rn.Kind)
		return nil
	}
}

func (v *validator) parseSplit(path string, rn *rawNode) *Node {
	n := &Node{Kind: KindSplit}
	if rn.Alias != nil {
		n.Alias = *rn.Alias
	}

	if rn.Direction == nil {
		v.fail(path+".direction", "is required")
	} else {
		switch *rn.Direction {
		case "v":
			n.Direction = DirectionVertical
		case "h":
			n.Direction = DirectionHorizontal
		default:
			v.fail(path+".direction", "must be v or h, got %q", *rn.Direction)
		}
	}

	if rn.Ratio == nil {
		v.fail(path+".ratio", "is required")
	} else {
		n.Ratio = *rn.Ratio
	}

	if rn.GutterMM != nil {
		n.GutterMM = *rn.GutterMM
	}
	if n.GutterMM < 0 {
		v.fail(path+".gutter_mm", "must be >= 0")
	}

	if rn.Divider != nil {
		if rn.Divider.Visible != nil {
			n.Divider.Visible = *rn.Divider.Visible
		}
		if rn.Divider.ThicknessMM != nil {
			n.Divider.ThicknessMM = *rn.Divider.ThicknessMM
		}
		if n.Divider.Visible && n.Divider.ThicknessMM <= 0 {
			v.fail(path+".divider.thickness_mm", "must be > 0 when divider.visible")
		}
	}

	if len(rn.Children) != 2 {
		v.fail(path+".children", "must contain exactly two nodes, got %d", len(rn.Children))
		return n
	}
	n.Children[0] = v.parseNode(path+"/0", rn.Children[0])
	n.Children[1] = v.parseNode(path+"/1", rn.Children[1])
	return n
}

func (v *validator) parseLeaf(path string, rn *rawNode) *Node {
	n := &Node{Kind: KindLeaf}
	if rn.Alias != nil {
		n.Alias = *rn.Alias
	}
	if rn.DebugBorder != nil {
		n.DebugBorder = *rn.DebugBorder
	}
	if rn.PaddingMM != nil {
		p, ok := v.parsePaddingSlice(path+".padding_mm", rn.PaddingMM)
		if ok {
			n.PaddingMM = &p
		}
	}

	if len(rn.Elements) != 1 {
		v.fail(path+".elements", "leaf must contain exactly one element, got %d", len(rn.Elements))
		return n
	}
	el := v.parseElement(fmt.Sprintf("%s.elements/0", path), rn.Elements[0])
	if el != nil {
		n.Elements = []Element{el}
	}
	return n
}
