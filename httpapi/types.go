package httpapi

import (
	"encoding/json"

	"github.com/zplgrid/zplgrid/draftstore"
	"github.com/zplgrid/zplgrid/template"
)

// targetInput is the wire shape of a render target; dpi defaults to 203
// (the most common thermal-transfer DPI) when omitted.
type targetInput struct {
	WidthMM   float64 `json:"width_mm"`
	HeightMM  float64 `json:"height_mm"`
	DPI       int     `json:"dpi"`
	OriginXMM float64 `json:"origin_x_mm"`
	OriginYMM float64 `json:"origin_y_mm"`
}

func (t targetInput) toTarget() template.Target {
	dpi := t.DPI
	if dpi == 0 {
		dpi = 203
	}
	return template.Target{
		WidthMM:   t.WidthMM,
		HeightMM:  t.HeightMM,
		DPI:       dpi,
		OriginXMM: t.OriginXMM,
		OriginYMM: t.OriginYMM,
	}
}

func (t targetInput) toDraftTarget() draftstore.TargetInput {
	return draftstore.TargetInput{
		WidthMM:   t.WidthMM,
		HeightMM:  t.HeightMM,
		DPI:       t.DPI,
		OriginXMM: t.OriginXMM,
		OriginYMM: t.OriginYMM,
	}
}

func targetInputFromDraft(d draftstore.TargetInput) targetInput {
	return targetInput{
		WidthMM:   d.WidthMM,
		HeightMM:  d.HeightMM,
		DPI:       d.DPI,
		OriginXMM: d.OriginXMM,
		OriginYMM: d.OriginYMM,
	}
}

type renderRequest struct {
	Template  json.RawMessage   `json:"template"`
	Target    targetInput       `json:"target"`
	Variables map[string]string `json:"variables"`
	Debug     bool              `json:"debug"`
}

type renderResponse struct {
	ZPL string `json:"zpl"`
}
