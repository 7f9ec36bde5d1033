package compile

import (
	"strings"

	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/measure"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
	"github.com/zplgrid/zplgrid/zpl"
)

func emitText(z *zpl.Builder, el template.TextElement, box layout.Rect, path string, dpi int, measurer measure.Measurer) error {
	text := strings.ReplaceAll(strings.ReplaceAll(el.Text, "\r\n", "\n"), "\r", "\n")

	fontHeightMM := el.FontHeightMM
	if fontHeightMM <= 0 {
		fontHeightMM = 4.0
	}
	fontWidthMM := el.FontWidthMM
	if fontWidthMM <= 0 {
		fontWidthMM = fontHeightMM
	}
	fontH, err := units.MMToDots(fontHeightMM, dpi)
	if err != nil {
		return &template.LayoutError{Path: path, Message: err.Error()}
	}
	fontW, err := units.MMToDots(fontWidthMM, dpi)
	if err != nil {
		return &template.LayoutError{Path: path, Message: err.Error()}
	}
	fontH = maxInt(1, fontH)
	fontW = maxInt(1, fontW)

	wrap := el.Wrap
	if wrap == "" {
		wrap = template.WrapWord
	}
	fit := el.Fit
	if fit == "" {
		if wrap != template.WrapNone {
			fit = template.FitWrap
		} else {
			fit = template.FitOverflow
		}
	}
	maxLines := el.MaxLines
	if maxLines <= 0 {
		maxLines = 9999
	}
	alignH := el.AlignH
	if alignH == "" {
		alignH = template.AlignHLeft
	}
	alignV := el.AlignV
	if alignV == "" {
		alignV = template.AlignVCenter
	}

	justification := map[template.AlignH]string{
		template.AlignHLeft:   "L",
		template.AlignHCenter: "C",
		template.AlignHRight:  "R",
	}[alignH]
	const lineSpacing = 0

	boxX, boxY := box.X, box.Y

	explicitLines := strings.Split(text, "\n")
	explicitLineCount := len(explicitLines)
	explicitOverflow := maxLines < 9999 && explicitLineCount > maxLines

	wrapForLayout := string(wrap)
	wrapForShrink := string(wrap)
	if fit == template.FitShrinkToFit && wrap == template.WrapChar {
		wrapForShrink = "word"
	}
	if fit == template.FitShrinkToFit && explicitOverflow {
		wrapForLayout = "none"
		wrapForShrink = "none"
	}

	if fit == template.FitShrinkToFit {
		shrinkMaxLines := maxLines
		if explicitOverflow {
			shrinkMaxLines = explicitLineCount
		}
		fontH, fontW = shrinkToFit(measurer, text, box, fontH, fontW, wrapForShrink, shrinkMaxLines, lineSpacing)
	}

	var layoutLines []string
	if box.W > 0 {
		layoutLines = measure.WrapLines(text, box.W, fontW, wrapForLayout)
		if fit == template.FitTruncate {
			if len(layoutLines) > maxLines {
				layoutLines = layoutLines[:maxLines]
			}
			maxChars := maxInt(1, box.W/maxInt(1, int(float64(fontW)*0.6)))
			for i, l := range layoutLines {
				if runes := []rune(l); len(runes) > maxChars {
					layoutLines[i] = string(runes[:maxChars])
				}
			}
		}
	}

	if alignV == template.AlignVCenter || alignV == template.AlignVBottom {
		metrics := measurer.Estimate(text, box.W, fontH, fontW, wrapForLayout, lineSpacing)
		contentH := metrics.HeightDots
		if alignV == template.AlignVCenter {
			boxY = box.Y + maxInt(0, (box.H-contentH)/2)
		} else {
			boxY = box.Y + maxInt(0, box.H-contentH)
		}
	}

	fieldText := strings.ReplaceAll(text, "\n", `\&`)
	if layoutLines != nil {
		fieldText = strings.Join(layoutLines, `\&`)
	}

	z.FieldOrigin(boxX, boxY)
	z.FontA0(fontH, fontW)

	if wrap != template.WrapNone || fit == template.FitWrap || fit == template.FitTruncate || fit == template.FitShrinkToFit {
		width := maxInt(1, box.W)
		fbMaxLines := maxLines
		if fit == template.FitShrinkToFit && explicitOverflow {
			fbMaxLines = explicitLineCount
		}
		if fit == template.FitOverflow {
			fbMaxLines = 9999
		}
		z.FieldBlock(width, fbMaxLines, lineSpacing, justification, 0)
	}

	needsHex, encoded := zpl.EncodeFieldData(fieldText, '_')
	if needsHex {
		z.FieldHex("_")
	}
	z.FieldData(encoded)
	z.FieldSeparator()
	return nil
}

// shrinkToFit shrinks font size geometrically (multiply by 0.9, floor) until
// the measured text fits the box, both font height and width bottom out at
// one dot, or 200 rounds have run.
func shrinkToFit(measurer measure.Measurer, text string, box layout.Rect, fontH, fontW int, wrap string, maxLines, lineSpacing int) (int, int) {
	if box.W <= 0 || box.H <= 0 {
		return fontH, fontW
	}
	currentH, currentW := fontH, fontW
	for i := 0; i < 200; i++ {
		metrics := measurer.Estimate(text, box.W, currentH, currentW, wrap, lineSpacing)
		if metrics.Lines <= maxLines && metrics.HeightDots <= box.H && metrics.WidthDots <= box.W {
			return currentH, currentW
		}
		currentH = maxInt(1, int(float64(currentH)*0.9))
		currentW = maxInt(1, int(float64(currentW)*0.9))
		if currentH == 1 && currentW == 1 {
			return currentH, currentW
		}
	}
	return currentH, currentW
}
