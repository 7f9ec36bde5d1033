package template

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// strictUnmarshal decodes data into v, rejecting any field not present in
// v's JSON tags. Fields typed map[string]any (extensions, defaults.text/
// code2d/image) are unaffected, since DisallowUnknownFields only checks
// struct destinations, not map ones.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// rawDocument mirrors the wire JSON shape before phase A/B validation.
type rawDocument struct {
	SchemaVersion *int            `json:"schema_version"`
	Name          *string         `json:"name"`
	Defaults      json.RawMessage `json:"defaults"`
	Layout        json.RawMessage `json:"layout"`
}

type rawPadding struct {
	Top    *float64 `json:"top"`
	Right  *float64 `json:"right"`
	Bottom *float64 `json:"bottom"`
	Left   *float64 `json:"left"`
}

type rawSize struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type rawDivider struct {
	Visible     *bool    `json:"visible"`
	ThicknessMM *float64 `json:"thickness_mm"`
}

type rawNode struct {
	Kind  string  `json:"kind"`
	Alias *string `json:"alias"`

	Direction *string         `json:"direction"`
	Ratio     *float64        `json:"ratio"`
	GutterMM  *float64        `json:"gutter_mm"`
	Divider   *rawDivider     `json:"divider"`
	Children  []json.RawMessage `json:"children"`

	PaddingMM   []float64         `json:"padding_mm"`
	DebugBorder *bool             `json:"debug_border"`
	Elements    []json.RawMessage `json:"elements"`
}

type rawElement struct {
	Type       string          `json:"type"`
	ID         *string         `json:"id"`
	PaddingMM  []float64       `json:"padding_mm"`
	MinSizeMM  []float64       `json:"min_size_mm"`
	MaxSizeMM  []float64       `json:"max_size_mm"`
	Extensions map[string]any  `json:"extensions"`

	// text
	Text         *string `json:"text"`
	FontHeightMM *float64 `json:"font_height_mm"`
	FontWidthMM  *float64 `json:"font_width_mm"`
	Wrap         *string `json:"wrap"`
	Fit          *string `json:"fit"`
	MaxLines     *int    `json:"max_lines"`
	AlignH       *string `json:"align_h"`
	AlignV       *string `json:"align_v"`

	// qr + datamatrix
	Data            *string  `json:"data"`
	Magnification   *int     `json:"magnification"`
	SizeMode        *string  `json:"size_mode"`
	ErrorCorrection *string  `json:"error_correction"`
	InputMode       *string  `json:"input_mode"`
	CharacterMode   *string  `json:"character_mode"`
	QuietZoneMM     *float64 `json:"quiet_zone_mm"`
	ModuleSizeMM    *float64 `json:"module_size_mm"`
	Columns         *int     `json:"columns"`
	Rows            *int     `json:"rows"`
	Quality         *int     `json:"quality"`
	FormatID        *int     `json:"format_id"`
	EscapeChar      *string  `json:"escape_char"`

	// line
	Orientation *string `json:"orientation"`
	ThicknessMM *float64 `json:"thickness_mm"`
	Align       *string `json:"align"`

	// image (Fit above is reinterpreted as image fit when type == "image")
	Source    *rawImageSource `json:"source"`
	InputDPI  *int            `json:"input_dpi"`
	Threshold *int            `json:"threshold"`
	Dither    *string         `json:"dither"`
	Invert    *bool           `json:"invert"`
}

type rawImageSource struct {
	Kind string `json:"kind"`
	Data string `json:"data"`
}

type rawDefaults struct {
	LeafPaddingMM []float64      `json:"leaf_padding_mm"`
	Text          map[string]any `json:"text"`
	Code2D        map[string]any `json:"code2d"`
	Image         map[string]any `json:"image"`
	Render        *rawRender     `json:"render"`
}

type rawRender struct {
	MissingVariables   *string `json:"missing_variables"`
	EmitCI28           *bool   `json:"emit_ci28"`
	DebugPaddingGuides *bool   `json:"debug_padding_guides"`
	DebugGutterGuides  *bool   `json:"debug_gutter_guides"`
}

// Parse parses raw JSON bytes into a Document, running both validation
// phases. A successful return is safe to hand to the defaults resolver.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := strictUnmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Issues: []Issue{{
			Kind: KindSchema, Path: "$", Message: fmt.Sprintf("invalid JSON: %v", err),
		}}}
	}

	v := &validator{}
	doc := v.parseDocument(&raw)
	if len(v.issues) > 0 {
		return nil, &ValidationError{Issues: v.issues}
	}

	if err := validateInvariants(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
