package template

import (
	"encoding/json"
)

func (v *validator) parseCommon(path string, re *rawElement) Common {
	c := Common{Extensions: re.Extensions}
	if re.ID != nil {
		c.ID = *re.ID
	}
	if re.PaddingMM != nil {
		if p, ok := v.parsePaddingSlice(path+".padding_mm", re.PaddingMM); ok {
			c.PaddingMM = p
		}
	}
	if re.MinSizeMM != nil {
		if s, ok := v.parseSizeSlice(path+".min_size_mm", re.MinSizeMM); ok {
			c.MinSizeMM = &s
		}
	}
	if re.MaxSizeMM != nil {
		if s, ok := v.parseSizeSlice(path+".max_size_mm", re.MaxSizeMM); ok {
			c.MaxSizeMM = &s
		}
	}
	return c
}

func (v *validator) parseElement(path string, raw json.RawMessage) Element {
	var re rawElement
	if err := strictUnmarshal(raw, &re); err != nil {
		v.fail(path, "invalid shape: %v", err)
		return nil
	}

	switch re.Type {
	case string(ElementText):
		return v.parseTextElement(path, &re)
	case string(ElementQR):
		return v.parseQRElement(path, &re)
	case string(ElementDataMatrix):
		return v.parseDataMatrixElement(path, &re)
	case string(ElementLine):
		return v.parseLineElement(path, &re)
	case string(ElementImage):
		return v.parseImageElement(path, &re)
	case "":
		v.fail(path+".type", "is required")
		return nil
	default:
		v.fail(path+".type", "unknown element type %q", re.Type)
		return nil
	}
}

func (v *validator) parseTextElement(path string, re *rawElement) Element {
	e := TextElement{Common: v.parseCommon(path, re)}

	if re.Text == nil {
		v.fail(path+".text", "is required")
	} else {
		e.Text = *re.Text
	}

	if re.FontHeightMM == nil {
		v.fail(path+".font_height_mm", "is required")
	} else if *re.FontHeightMM <= 0 {
		v.fail(path+".font_height_mm", "must be > 0, got %g", *re.FontHeightMM)
	} else {
		e.FontHeightMM = *re.FontHeightMM
	}

	if re.FontWidthMM != nil {
		if *re.FontWidthMM <= 0 {
			v.fail(path+".font_width_mm", "must be > 0, got %g", *re.FontWidthMM)
		} else {
			e.FontWidthMM = *re.FontWidthMM
		}
	}

	// Wrap/Fit/MaxLines/AlignV are left at their Go zero value when absent
	// rather than baked to a concrete default here: emitText derives
	// wrap="word", fit from wrap, max_lines=9999, and align_v="center"
	// from an empty value, matching compiler.py's `element.wrap or 'word'`
	// style fallbacks. Baking a concrete default here would make those
	// fallbacks dead code and would pick the wrong default (none/overflow/
	// 1/top instead of word/wrap/9999/center).
	if re.Wrap != nil {
		e.markExplicit("wrap")
		w := Wrap(*re.Wrap)
		if w != WrapNone && w != WrapWord && w != WrapChar {
			v.fail(path+".wrap", "must be one of none, word, char, got %q", *re.Wrap)
		} else {
			e.Wrap = w
		}
	}

	if re.Fit != nil {
		e.markExplicit("fit")
		f := Fit(*re.Fit)
		switch f {
		case FitOverflow, FitWrap, FitShrinkToFit, FitTruncate:
			e.Fit = f
		default:
			v.fail(path+".fit", "must be one of overflow, wrap, shrink_to_fit, truncate, got %q", *re.Fit)
		}
	}

	if re.MaxLines != nil {
		if *re.MaxLines < 1 {
			v.fail(path+".max_lines", "must be >= 1, got %d", *re.MaxLines)
		} else {
			e.MaxLines = *re.MaxLines
		}
	}

	e.AlignH = AlignHLeft
	if re.AlignH != nil {
		e.markExplicit("align_h")
		a := AlignH(*re.AlignH)
		if a != AlignHLeft && a != AlignHCenter && a != AlignHRight {
			v.fail(path+".align_h", "must be one of left, center, right, got %q", *re.AlignH)
		} else {
			e.AlignH = a
		}
	}

	if re.AlignV != nil {
		e.markExplicit("align_v")
		a := AlignV(*re.AlignV)
		if a != AlignVTop && a != AlignVCenter && a != AlignVBottom {
			v.fail(path+".align_v", "must be one of top, center, bottom, got %q", *re.AlignV)
		} else {
			e.AlignV = a
		}
	}

	return e
}

// parseAlignHV leaves ah/av at the Go zero value when the field is absent,
// rather than baking a concrete default: QR/DataMatrix/Image all fall back
// to center/center in their own emit code (mirroring compiler.py's
// `element.align_h or 'center'` / `element.align_v or 'center'`), so baking
// left/top here would make that fallback dead code and pick the wrong
// default.
func (v *validator) parseAlignHV(path string, re *rawElement, c *Common) (AlignH, AlignV) {
	var ah AlignH
	if re.AlignH != nil {
		c.markExplicit("align_h")
		a := AlignH(*re.AlignH)
		if a != AlignHLeft && a != AlignHCenter && a != AlignHRight {
			v.fail(path+".align_h", "must be one of left, center, right, got %q", *re.AlignH)
		} else {
			ah = a
		}
	}
	var av AlignV
	if re.AlignV != nil {
		c.markExplicit("align_v")
		a := AlignV(*re.AlignV)
		if a != AlignVTop && a != AlignVCenter && a != AlignVBottom {
			v.fail(path+".align_v", "must be one of top, center, bottom, got %q", *re.AlignV)
		} else {
			av = a
		}
	}
	return ah, av
}

func (v *validator) parseQRElement(path string, re *rawElement) Element {
	e := QRElement{Common: v.parseCommon(path, re)}

	if re.Data == nil {
		v.fail(path+".data", "is required")
	} else {
		e.Data = *re.Data
	}

	if re.Magnification != nil {
		if *re.Magnification < 1 || *re.Magnification > 10 {
			v.fail(path+".magnification", "must be in [1,10], got %d", *re.Magnification)
		} else {
			e.Magnification = *re.Magnification
		}
	}

	e.SizeMode = SizeModeFixed
	if re.SizeMode != nil {
		e.markExplicit("size_mode")
		m := SizeMode(*re.SizeMode)
		if m != SizeModeFixed && m != SizeModeMax {
			v.fail(path+".size_mode", "must be fixed or max, got %q", *re.SizeMode)
		} else {
			e.SizeMode = m
		}
	}

	e.ErrorCorrection = "M"
	if re.ErrorCorrection != nil {
		switch *re.ErrorCorrection {
		case "L", "M", "Q", "H":
			e.ErrorCorrection = *re.ErrorCorrection
		default:
			v.fail(path+".error_correction", "must be one of L, M, Q, H, got %q", *re.ErrorCorrection)
		}
	}

	e.InputMode = "A"
	if re.InputMode != nil {
		switch *re.InputMode {
		case "A", "M":
			e.InputMode = *re.InputMode
		default:
			v.fail(path+".input_mode", "must be A or M, got %q", *re.InputMode)
		}
	}

	if re.CharacterMode != nil {
		switch *re.CharacterMode {
		case "N", "A":
			e.CharacterMode = *re.CharacterMode
		default:
			v.fail(path+".character_mode", "must be N or A, got %q", *re.CharacterMode)
		}
	}

	if re.QuietZoneMM != nil {
		e.markExplicit("quiet_zone_mm")
		if *re.QuietZoneMM < 0 {
			v.fail(path+".quiet_zone_mm", "must be >= 0")
		} else {
			e.QuietZoneMM = *re.QuietZoneMM
		}
	}

	e.AlignH, e.AlignV = v.parseAlignHV(path, re, &e.Common)
	return e
}

func (v *validator) parseDataMatrixElement(path string, re *rawElement) Element {
	e := DataMatrixElement{Common: v.parseCommon(path, re)}

	if re.Data == nil {
		v.fail(path+".data", "is required")
	} else {
		e.Data = *re.Data
	}

	e.ModuleSizeMM = 0.5
	if re.ModuleSizeMM != nil {
		if *re.ModuleSizeMM <= 0 {
			v.fail(path+".module_size_mm", "must be > 0, got %g", *re.ModuleSizeMM)
		} else {
			e.ModuleSizeMM = *re.ModuleSizeMM
		}
	}

	e.SizeMode = SizeModeFixed
	if re.SizeMode != nil {
		e.markExplicit("size_mode")
		m := SizeMode(*re.SizeMode)
		if m != SizeModeFixed && m != SizeModeMax {
			v.fail(path+".size_mode", "must be fixed or max, got %q", *re.SizeMode)
		} else {
			e.SizeMode = m
		}
	}

	if re.Columns != nil {
		if *re.Columns < 0 || *re.Columns > 49 {
			v.fail(path+".columns", "must be in [0,49], got %d", *re.Columns)
		} else {
			e.Columns = *re.Columns
		}
	}
	if re.Rows != nil {
		if *re.Rows < 0 || *re.Rows > 49 {
			v.fail(path+".rows", "must be in [0,49], got %d", *re.Rows)
		} else {
			e.Rows = *re.Rows
		}
	}

	e.Quality = 200
	if re.Quality != nil && *re.Quality != 200 {
		v.fail(path+".quality", "only 200 (ECC200) is supported, got %d", *re.Quality)
	}

	e.FormatID = 6
	if re.FormatID != nil {
		if *re.FormatID < 0 || *re.FormatID > 6 {
			v.fail(path+".format_id", "must be in [0,6], got %d", *re.FormatID)
		} else {
			e.FormatID = *re.FormatID
		}
	}

	e.EscapeChar = "_"
	if re.EscapeChar != nil {
		if len([]rune(*re.EscapeChar)) != 1 {
			v.fail(path+".escape_char", "must be exactly one character")
		} else {
			e.EscapeChar = *re.EscapeChar
		}
	}

	if re.QuietZoneMM != nil {
		e.markExplicit("quiet_zone_mm")
		if *re.QuietZoneMM < 0 {
			v.fail(path+".quiet_zone_mm", "must be >= 0")
		} else {
			e.QuietZoneMM = *re.QuietZoneMM
		}
	}

	e.AlignH, e.AlignV = v.parseAlignHV(path, re, &e.Common)
	return e
}

func (v *validator) parseLineElement(path string, re *rawElement) Element {
	e := LineElement{Common: v.parseCommon(path, re)}

	if re.Orientation == nil {
		v.fail(path+".orientation", "is required")
	} else {
		o := LineOrientation(*re.Orientation)
		if o != LineHorizontal && o != LineVertical {
			v.fail(path+".orientation", "must be h or v, got %q", *re.Orientation)
		} else {
			e.Orientation = o
		}
	}

	if re.ThicknessMM == nil {
		v.fail(path+".thickness_mm", "is required")
	} else if *re.ThicknessMM <= 0 {
		v.fail(path+".thickness_mm", "must be > 0, got %g", *re.ThicknessMM)
	} else {
		e.ThicknessMM = *re.ThicknessMM
	}

	e.Align = LineAlignCenter
	if re.Align != nil {
		a := LineAlign(*re.Align)
		if a != LineAlignStart && a != LineAlignCenter && a != LineAlignEnd {
			v.fail(path+".align", "must be one of start, center, end, got %q", *re.Align)
		} else {
			e.Align = a
		}
	}

	return e
}

func (v *validator) parseImageElement(path string, re *rawElement) Element {
	e := ImageElement{Common: v.parseCommon(path, re)}

	if re.Source == nil {
		v.fail(path+".source", "is required")
	} else {
		switch re.Source.Kind {
		case string(ImageSourceBase64), string(ImageSourceURL):
			e.Source = ImageSource{Kind: ImageSourceKind(re.Source.Kind), Data: re.Source.Data}
		default:
			v.fail(path+".source.kind", "must be base64 or url, got %q", re.Source.Kind)
		}
		if re.Source.Data == "" {
			v.fail(path+".source.data", "is required")
		}
	}

	e.Fit = ImageFitContain
	if re.Fit != nil {
		e.markExplicit("fit")
		f := ImageFit(*re.Fit)
		switch f {
		case ImageFitNone, ImageFitContain, ImageFitCover, ImageFitStretch:
			e.Fit = f
		default:
			v.fail(path+".fit", "must be one of none, contain, cover, stretch, got %q", *re.Fit)
		}
	}

	e.AlignH, e.AlignV = v.parseAlignHV(path, re, &e.Common)

	e.InputDPI = 0
	if re.InputDPI != nil {
		if *re.InputDPI <= 0 {
			v.fail(path+".input_dpi", "must be > 0, got %d", *re.InputDPI)
		} else {
			e.InputDPI = *re.InputDPI
		}
	}

	e.Threshold = 128
	if re.Threshold != nil {
		if *re.Threshold < 0 || *re.Threshold > 255 {
			v.fail(path+".threshold", "must be in [0,255], got %d", *re.Threshold)
		} else {
			e.Threshold = *re.Threshold
		}
	}

	e.Dither = DitherNone
	if re.Dither != nil {
		e.markExplicit("dither")
		d := ImageDither(*re.Dither)
		switch d {
		case DitherNone, DitherFloydSteinberg, DitherBayer:
			e.Dither = d
		default:
			v.fail(path+".dither", "must be one of none, floyd_steinberg, bayer, got %q", *re.Dither)
		}
	}

	if re.Invert != nil {
		e.Invert = *re.Invert
	}

	return e
}
