package compile

import (
	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
	"github.com/zplgrid/zplgrid/zpl"
)

func emitLine(z *zpl.Builder, el template.LineElement, box layout.Rect, path string, dpi int) error {
	thicknessMM := el.ThicknessMM
	thickness, err := units.MMToDots(thicknessMM, dpi)
	if err != nil {
		return &template.LayoutError{Path: path, Message: err.Error()}
	}
	thickness = maxInt(1, thickness)

	align := el.Align
	if align == "" {
		align = template.LineAlignCenter
	}

	if el.Orientation == template.LineHorizontal {
		y := box.Y
		switch align {
		case template.LineAlignCenter:
			y = box.Y + maxInt(0, (box.H-thickness)/2)
		case template.LineAlignEnd:
			y = box.Y + maxInt(0, box.H-thickness)
		}
		z.FieldOrigin(box.X, y)
		z.GraphicBox(maxInt(1, box.W), thickness, thickness, "B", 0)
		z.FieldSeparator()
		return nil
	}

	x := box.X
	switch align {
	case template.LineAlignCenter:
		x = box.X + maxInt(0, (box.W-thickness)/2)
	case template.LineAlignEnd:
		x = box.X + maxInt(0, box.W-thickness)
	}
	z.FieldOrigin(x, box.Y)
	z.GraphicBox(thickness, maxInt(1, box.H), thickness, "B", 0)
	z.FieldSeparator()
	return nil
}
