package compile

import (
	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
	"github.com/zplgrid/zplgrid/zpl"
)

func emitDataMatrix(z *zpl.Builder, el template.DataMatrixElement, box layout.Rect, path string, dpi int) error {
	qzDots := 0
	if el.QuietZoneMM > 0 {
		d, err := units.MMToDots(el.QuietZoneMM, dpi)
		if err != nil {
			return &template.LayoutError{Path: path, Message: err.Error()}
		}
		qzDots = d
	}
	inner := layout.Rect{
		X: box.X + qzDots,
		Y: box.Y + qzDots,
		W: box.W - 2*qzDots,
		H: box.H - 2*qzDots,
	}

	sizeMode := el.SizeMode
	if sizeMode == "" {
		sizeMode = template.SizeModeFixed
	}
	alignH := el.AlignH
	if alignH == "" {
		alignH = template.AlignHCenter
	}
	alignV := el.AlignV
	if alignV == "" {
		alignV = template.AlignVCenter
	}
	quality := el.Quality
	if quality == 0 {
		quality = 200
	}
	columns := el.Columns
	rows := el.Rows
	formatID := el.FormatID
	if formatID == 0 {
		formatID = 6
	}
	escapeChar := el.EscapeChar
	if escapeChar == "" {
		escapeChar = "_"
	}

	var module int
	if sizeMode == template.SizeModeMax {
		if columns <= 0 || rows <= 0 {
			return template.Issue{Kind: template.KindInvariant, Path: path, Message: "DataMatrix size_mode \"max\" requires explicit columns and rows"}
		}
		module = maxInt(1, minInt(inner.W/columns, inner.H/rows))
	} else {
		moduleMM := el.ModuleSizeMM
		if moduleMM <= 0 {
			moduleMM = 0.5
		}
		d, err := units.MMToDots(moduleMM, dpi)
		if err != nil {
			return &template.LayoutError{Path: path, Message: err.Error()}
		}
		module = maxInt(1, d)
	}

	sizeW := maxInt(1, minInt(inner.W, inner.H))
	sizeH := sizeW
	if columns > 0 && rows > 0 {
		if geo, err := zpl.DataMatrixInkSize(module, columns, rows, 1); err == nil {
			sizeW = maxInt(1, geo.InkWidthDots)
			sizeH = maxInt(1, geo.InkHeightDots)
		}
	}

	x, y := alignInRect(inner, sizeW, sizeH, alignH, alignV)

	needsHex, encoded := zpl.EncodeFieldData(el.Data, escapeChar[0])
	z.FieldOrigin(x, y)
	z.DataMatrix(module, quality, columns, rows, formatID, escapeChar)
	if needsHex {
		z.FieldHex(escapeChar)
	}
	z.FieldData(encoded)
	z.FieldSeparator()
	return nil
}
