// Package layout solves a template's split/leaf tree against a physical
// render target, producing integer dot rectangles with a no-missing-pixel
// invariant: for every split, child0 + gutter + child1 == parent exactly.
package layout

import (
	"fmt"

	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
)

// Rect is an axis-aligned rectangle in dots, relative to the render
// target's origin.
type Rect struct {
	X, Y, W, H int
}

// DividerRect is a visible divider line centred inside a split's gutter.
type DividerRect struct {
	Path string
	Rect Rect
}

// GutterRect is the full gutter region of a split, regardless of whether
// its divider is visible, for the debug_gutter_guides overlay.
type GutterRect struct {
	Path      string
	Rect      Rect
	Direction template.Direction
}

// Result is the full solved layout: every node's rect (keyed by canonical
// id), every leaf's content rect (after padding), every gutter region, and
// every visible divider's rect. It is JSON-marshalable for debugging.
type Result struct {
	NodeRects    map[string]Rect `json:"node_rects"`
	ContentRects map[string]Rect `json:"content_rects"`
	Dividers     []DividerRect   `json:"dividers"`
	Gutters      []GutterRect    `json:"gutters"`
	Target       template.Target `json:"target"`
}

// Solve walks the tree depth-first and computes every rect. The tree must
// already be defaults-resolved (every leaf has non-nil PaddingMM).
func Solve(root *template.Node, target template.Target) (*Result, error) {
	dpi := target.DPI
	rootW, err := units.MMToDots(target.WidthMM, dpi)
	if err != nil {
		return nil, &template.LayoutError{Path: "$.target.width_mm", Message: err.Error()}
	}
	rootH, err := units.MMToDots(target.HeightMM, dpi)
	if err != nil {
		return nil, &template.LayoutError{Path: "$.target.height_mm", Message: err.Error()}
	}

	res := &Result{
		NodeRects:    map[string]Rect{},
		ContentRects: map[string]Rect{},
		Target:       target,
	}
	rootRect := Rect{X: 0, Y: 0, W: rootW, H: rootH}
	if err := solveNode(root, "r", rootRect, dpi, res); err != nil {
		return nil, err
	}
	return res, nil
}

func solveNode(n *template.Node, path string, rect Rect, dpi int, res *Result) error {
	if rect.W <= 0 || rect.H <= 0 {
		return &template.LayoutError{Path: path, Message: fmt.Sprintf("non-positive rect %dx%d", rect.W, rect.H)}
	}
	res.NodeRects[path] = rect

	switch n.Kind {
	case template.KindSplit:
		return solveSplit(n, path, rect, dpi, res)
	case template.KindLeaf:
		return solveLeaf(n, path, rect, dpi, res)
	}
	return nil
}

func solveSplit(n *template.Node, path string, rect Rect, dpi int, res *Result) error {
	gutterDots, err := units.MMToDots(n.GutterMM, dpi)
	if err != nil {
		return &template.LayoutError{Path: path + ".gutter_mm", Message: err.Error()}
	}

	var length int
	if n.Direction == template.DirectionVertical {
		length = rect.W
	} else {
		length = rect.H
	}

	available := length - gutterDots
	if available < 0 {
		return &template.LayoutError{Path: path, Message: fmt.Sprintf("gutter (%d dots) exceeds parent length (%d dots)", gutterDots, length)}
	}

	child0Len := int(float64(available) * n.Ratio) // floor via truncation toward zero (ratio, available >= 0)
	child1Len := available - child0Len

	if child0Len < 0 || child1Len < 0 {
		return &template.LayoutError{Path: path, Message: "negative child length after split"}
	}

	var c0, c1 Rect
	if n.Direction == template.DirectionVertical {
		c0 = Rect{X: rect.X, Y: rect.Y, W: child0Len, H: rect.H}
		c1 = Rect{X: rect.X + child0Len + gutterDots, Y: rect.Y, W: child1Len, H: rect.H}
		if gutterDots > 0 {
			res.Gutters = append(res.Gutters, GutterRect{Path: path, Direction: n.Direction, Rect: Rect{X: rect.X + child0Len, Y: rect.Y, W: gutterDots, H: rect.H}})
		}
	} else {
		c0 = Rect{X: rect.X, Y: rect.Y, W: rect.W, H: child0Len}
		c1 = Rect{X: rect.X, Y: rect.Y + child0Len + gutterDots, W: rect.W, H: child1Len}
		if gutterDots > 0 {
			res.Gutters = append(res.Gutters, GutterRect{Path: path, Direction: n.Direction, Rect: Rect{X: rect.X, Y: rect.Y + child0Len, W: rect.W, H: gutterDots}})
		}
	}

	if n.Divider.Visible {
		thicknessDots, err := units.MMToDots(n.Divider.ThicknessMM, dpi)
		if err != nil {
			return &template.LayoutError{Path: path + ".divider.thickness_mm", Message: err.Error()}
		}
		offset := (gutterDots - thicknessDots) / 2
		var dr Rect
		if n.Direction == template.DirectionVertical {
			dr = Rect{X: rect.X + child0Len + offset, Y: rect.Y, W: thicknessDots, H: rect.H}
		} else {
			dr = Rect{X: rect.X, Y: rect.Y + child0Len + offset, W: rect.W, H: thicknessDots}
		}
		res.Dividers = append(res.Dividers, DividerRect{Path: path, Rect: dr})
	}

	if err := solveNode(n.Children[0], path+"/0", c0, dpi, res); err != nil {
		return err
	}
	return solveNode(n.Children[1], path+"/1", c1, dpi, res)
}

func solveLeaf(n *template.Node, path string, rect Rect, dpi int, res *Result) error {
	pad := template.Padding{}
	if n.PaddingMM != nil {
		pad = *n.PaddingMM
	}
	top, err := units.MMToDots(pad.Top, dpi)
	if err != nil {
		return &template.LayoutError{Path: path + ".padding_mm", Message: err.Error()}
	}
	right, err := units.MMToDots(pad.Right, dpi)
	if err != nil {
		return &template.LayoutError{Path: path + ".padding_mm", Message: err.Error()}
	}
	bottom, err := units.MMToDots(pad.Bottom, dpi)
	if err != nil {
		return &template.LayoutError{Path: path + ".padding_mm", Message: err.Error()}
	}
	left, err := units.MMToDots(pad.Left, dpi)
	if err != nil {
		return &template.LayoutError{Path: path + ".padding_mm", Message: err.Error()}
	}

	content := Rect{
		X: rect.X + left,
		Y: rect.Y + top,
		W: rect.W - left - right,
		H: rect.H - top - bottom,
	}
	if content.W <= 0 || content.H <= 0 {
		return &template.LayoutError{Path: path, Message: fmt.Sprintf("padding leaves non-positive content rect %dx%d", content.W, content.H)}
	}
	res.ContentRects[path] = content
	return nil
}
