package compile

import (
	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/zpl"
)

// emitGuide draws a one-dot frame around rect, used for leaf borders and the
// padding/gutter debug overlays.
func emitGuide(z *zpl.Builder, rect layout.Rect) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	z.FieldOrigin(rect.X, rect.Y)
	z.GraphicBox(maxInt(1, rect.W), maxInt(1, rect.H), 1, "B", 0)
	z.FieldSeparator()
}

// emitDivider draws rect as a solid bar rather than an outline: thickness
// equal to the shorter side fills the whole rect instead of leaving a
// hollow center, matching a visible split divider.
func emitDivider(z *zpl.Builder, rect layout.Rect) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	thickness := rect.W
	if rect.H < thickness {
		thickness = rect.H
	}
	z.FieldOrigin(rect.X, rect.Y)
	z.GraphicBox(rect.W, rect.H, maxInt(1, thickness), "B", 0)
	z.FieldSeparator()
}
