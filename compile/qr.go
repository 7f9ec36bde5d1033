package compile

import (
	"fmt"

	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
	"github.com/zplgrid/zplgrid/zpl"
)

const qrModel = 2

func emitQR(z *zpl.Builder, el template.QRElement, box layout.Rect, path string, dpi int) error {
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
	ecc := el.ErrorCorrection
	if ecc == "" {
		ecc = "M"
	}
	inputMode := el.InputMode
	if inputMode == "" {
		inputMode = "A"
	}
	if inputMode == "M" && el.CharacterMode == "" {
		return template.Issue{Kind: template.KindInvariant, Path: path, Message: "QR character_mode is required when input_mode is \"M\""}
	}

	mag := el.Magnification
	if mag <= 0 {
		mag = zpl.QRDefaultMagnification(dpi)
	}

	version, _, verErr := zpl.QRVersionForData(el.Data, ecc)
	modules := 21
	if verErr == nil {
		modules = zpl.QRModulesPerSide(version)
	}

	if sizeMode == template.SizeModeMax {
		if m := zpl.QRMaxMagnificationForBox(modules, maxInt(1, inner.W), maxInt(1, inner.H)); m > 0 {
			mag = m
		}
	}

	sizeW := maxInt(1, modules*mag)
	forcedTopDots := zpl.QRForcedTopDots(mag)
	footprintH := sizeW + forcedTopDots

	x, y := alignInRect(inner, sizeW, footprintH, alignH, alignV)
	x = maxInt(0, x)
	y = maxInt(0, y)

	var fieldData string
	if inputMode == "A" {
		fieldData = fmt.Sprintf("%sA,%s", ecc, el.Data)
	} else {
		cm := el.CharacterMode
		if cm == "" {
			cm = "A"
		}
		fieldData = fmt.Sprintf("%sM,%s%s", ecc, cm, el.Data)
	}

	needsHex, encoded := zpl.EncodeFieldData(fieldData, '_')
	z.FieldOrigin(x, y)
	z.QRCode(qrModel, mag)
	if needsHex {
		z.FieldHex("_")
	}
	z.FieldData(encoded)
	z.FieldSeparator()
	return nil
}
