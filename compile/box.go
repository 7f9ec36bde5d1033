// Package compile dispatches a defaults-resolved, variable-bound template
// against its solved layout and emits the ZPL program: per-element
// placement and sizing policy, debug overlays, and program assembly.
package compile

import (
	"fmt"

	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
)

// elementBox is the rectangle an element actually renders into, after its
// own padding and min/max-size enforcement have been applied to the leaf's
// content rect.
func elementBox(common template.Common, contentRect layout.Rect, path string, dpi int) (layout.Rect, error) {
	top, err := units.MMToDots(common.PaddingMM.Top, dpi)
	if err != nil {
		return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
	}
	right, err := units.MMToDots(common.PaddingMM.Right, dpi)
	if err != nil {
		return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
	}
	bottom, err := units.MMToDots(common.PaddingMM.Bottom, dpi)
	if err != nil {
		return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
	}
	left, err := units.MMToDots(common.PaddingMM.Left, dpi)
	if err != nil {
		return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
	}

	box := layout.Rect{
		X: contentRect.X + left,
		Y: contentRect.Y + top,
		W: contentRect.W - left - right,
		H: contentRect.H - top - bottom,
	}

	if common.MinSizeMM != nil {
		minW, err := units.MMToDots(common.MinSizeMM.Width, dpi)
		if err != nil {
			return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
		}
		minH, err := units.MMToDots(common.MinSizeMM.Height, dpi)
		if err != nil {
			return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
		}
		if box.W < minW || box.H < minH {
			return layout.Rect{}, &template.LayoutError{Path: path, Message: fmt.Sprintf("element does not meet min_size_mm: need %dx%d dots, got %dx%d", minW, minH, box.W, box.H)}
		}
	}

	if common.MaxSizeMM != nil {
		maxW, err := units.MMToDots(common.MaxSizeMM.Width, dpi)
		if err != nil {
			return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
		}
		maxH, err := units.MMToDots(common.MaxSizeMM.Height, dpi)
		if err != nil {
			return layout.Rect{}, &template.LayoutError{Path: path, Message: err.Error()}
		}
		targetW := minInt(box.W, maxW)
		targetH := minInt(box.H, maxH)
		dx := (box.W - targetW) / 2
		dy := (box.H - targetH) / 2
		box = layout.Rect{X: box.X + dx, Y: box.Y + dy, W: targetW, H: targetH}
	}

	return box, nil
}

func alignInRect(rect layout.Rect, sizeW, sizeH int, alignH template.AlignH, alignV template.AlignV) (int, int) {
	x, y := rect.X, rect.Y
	switch alignH {
	case template.AlignHCenter:
		x = rect.X + maxInt(0, (rect.W-sizeW)/2)
	case template.AlignHRight:
		x = rect.X + maxInt(0, rect.W-sizeW)
	}
	switch alignV {
	case template.AlignVCenter:
		y = rect.Y + maxInt(0, (rect.H-sizeH)/2)
	case template.AlignVBottom:
		y = rect.Y + maxInt(0, rect.H-sizeH)
	}
	return x, y
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
