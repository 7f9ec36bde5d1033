package template

// ResolveDefaults returns a new tree with defaults.leaf_padding_mm folded
// into padding-less leaves and defaults.{text,code2d,image} folded into
// elements that omit the corresponding field, element values always
// winning (mirrors the original's `{**defaults, **raw}` merge order). The
// input tree is left untouched.
func ResolveDefaults(doc *Document) *Document {
	out := &Document{
		SchemaVersion: doc.SchemaVersion,
		Name:          doc.Name,
		Defaults:      doc.Defaults,
		Layout:        resolveNode(doc.Layout, doc.Defaults),
	}
	return out
}

func resolveNode(n *Node, d Defaults) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	switch n.Kind {
	case KindSplit:
		c0 := resolveNode(n.Children[0], d)
		c1 := resolveNode(n.Children[1], d)
		cp.Children = [2]*Node{c0, c1}
	case KindLeaf:
		if cp.PaddingMM == nil {
			p := d.LeafPaddingMM
			cp.PaddingMM = &p
		}
		if len(n.Elements) == 1 {
			cp.Elements = []Element{resolveElement(n.Elements[0], d)}
		}
	}
	return &cp
}

func resolveElement(e Element, d Defaults) Element {
	switch el := e.(type) {
	case TextElement:
		applyTextDefaults(&el, d.Text)
		return el
	case QRElement:
		applyQRDefaults(&el, d.Code2D)
		return el
	case DataMatrixElement:
		applyDataMatrixDefaults(&el, d.Code2D)
		return el
	case ImageElement:
		applyImageDefaults(&el, d.Image)
		return el
	default:
		return e
	}
}

// The *Defaults functions only fill a field the element's own JSON left
// absent, tracked via Common.explicit rather than a zero-value comparison:
// an element that explicitly chose the zero-value enum (e.g. wrap: none)
// still wins over defaults.text, matching the "element wins on conflict"
// rule.

func applyTextDefaults(e *TextElement, def map[string]any) {
	if def == nil {
		return
	}
	if !e.isExplicit("wrap") {
		if v, ok := def["wrap"].(string); ok {
			e.Wrap = Wrap(v)
		}
	}
	if !e.isExplicit("fit") {
		if v, ok := def["fit"].(string); ok {
			e.Fit = Fit(v)
		}
	}
	if !e.isExplicit("align_h") {
		if v, ok := def["align_h"].(string); ok {
			e.AlignH = AlignH(v)
		}
	}
	if !e.isExplicit("align_v") {
		if v, ok := def["align_v"].(string); ok {
			e.AlignV = AlignV(v)
		}
	}
}

func applyQRDefaults(e *QRElement, def map[string]any) {
	if def == nil {
		return
	}
	if !e.isExplicit("quiet_zone_mm") {
		if v, ok := def["quiet_zone_mm"].(float64); ok {
			e.QuietZoneMM = v
		}
	}
	if !e.isExplicit("size_mode") {
		if v, ok := def["size_mode"].(string); ok {
			e.SizeMode = SizeMode(v)
		}
	}
	if !e.isExplicit("align_h") {
		if v, ok := def["align_h"].(string); ok {
			e.AlignH = AlignH(v)
		}
	}
	if !e.isExplicit("align_v") {
		if v, ok := def["align_v"].(string); ok {
			e.AlignV = AlignV(v)
		}
	}
}

func applyDataMatrixDefaults(e *DataMatrixElement, def map[string]any) {
	if def == nil {
		return
	}
	if !e.isExplicit("quiet_zone_mm") {
		if v, ok := def["quiet_zone_mm"].(float64); ok {
			e.QuietZoneMM = v
		}
	}
	if !e.isExplicit("size_mode") {
		if v, ok := def["size_mode"].(string); ok {
			e.SizeMode = SizeMode(v)
		}
	}
	if !e.isExplicit("align_h") {
		if v, ok := def["align_h"].(string); ok {
			e.AlignH = AlignH(v)
		}
	}
	if !e.isExplicit("align_v") {
		if v, ok := def["align_v"].(string); ok {
			e.AlignV = AlignV(v)
		}
	}
}

func applyImageDefaults(e *ImageElement, def map[string]any) {
	if def == nil {
		return
	}
	if !e.isExplicit("fit") {
		if v, ok := def["fit"].(string); ok {
			e.Fit = ImageFit(v)
		}
	}
	if !e.isExplicit("dither") {
		if v, ok := def["dither"].(string); ok {
			e.Dither = ImageDither(v)
		}
	}
}
