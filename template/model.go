// Package template defines the zplgrid template document: the node tree,
// element variants, and per-render defaults, plus the JSON parsing and
// validation that turn a raw document into one safe for the layout solver
// and element compiler to consume. Entities here are immutable after
// construction; every later stage derives a new value rather than mutating
// one of these.
package template

// Padding is a four-sided inset in millimetres.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Size is a [width, height] pair in millimetres.
type Size struct {
	Width, Height float64
}

// Target describes the physical label and the origin offset field commands
// are placed against.
type Target struct {
	WidthMM   float64
	HeightMM  float64
	DPI       int
	OriginXMM float64
	OriginYMM float64
}

// Divider is an optional visible line centred inside a split's gutter.
type Divider struct {
	Visible      bool
	ThicknessMM  float64
}

// Direction is a split axis.
type Direction string

const (
	DirectionVertical   Direction = "v"
	DirectionHorizontal Direction = "h"
)

// NodeKind discriminates the two node variants.
type NodeKind string

const (
	KindSplit NodeKind = "split"
	KindLeaf  NodeKind = "leaf"
)

// Node is one entry in the layout tree: either a Split or a Leaf.
// Exactly one of Split/Leaf is non-nil, selected by Kind.
type Node struct {
	Kind  NodeKind
	Alias string

	// Split fields.
	Direction Direction
	Ratio     float64
	GutterMM  float64
	Divider   Divider
	Children  [2]*Node

	// Leaf fields.
	PaddingMM      *Padding // nil means "inherit defaults.leaf_padding_mm"
	DebugBorder    bool
	Elements       []Element
}

// ElementType discriminates element variants.
type ElementType string

const (
	ElementText       ElementType = "text"
	ElementQR         ElementType = "qr"
	ElementDataMatrix ElementType = "datamatrix"
	ElementLine       ElementType = "line"
	ElementImage      ElementType = "image"
)

// Common fields shared by every element variant.
type Common struct {
	ID         string
	PaddingMM  Padding
	MinSizeMM  *Size
	MaxSizeMM  *Size
	Extensions map[string]any

	// explicit records which optional fields the element's own JSON set,
	// keyed by field name (e.g. "wrap", "fit"). defaults.go consults this
	// instead of comparing against an enum's zero value, so an element
	// that explicitly chose the zero-value enum is not overwritten by
	// defaults.text/code2d/image.
	explicit map[string]bool
}

func (c *Common) markExplicit(field string) {
	if c.explicit == nil {
		c.explicit = map[string]bool{}
	}
	c.explicit[field] = true
}

func (c Common) isExplicit(field string) bool {
	return c.explicit[field]
}

// Wrap is the text wrap strategy.
type Wrap string

const (
	WrapNone Wrap = "none"
	WrapWord Wrap = "word"
	WrapChar Wrap = "char"
)

// Fit is the text overflow policy.
type Fit string

const (
	FitOverflow     Fit = "overflow"
	FitWrap         Fit = "wrap"
	FitShrinkToFit  Fit = "shrink_to_fit"
	FitTruncate     Fit = "truncate"
)

// AlignH is horizontal alignment within an element's box.
type AlignH string

const (
	AlignHLeft   AlignH = "left"
	AlignHCenter AlignH = "center"
	AlignHRight  AlignH = "right"
)

// AlignV is vertical alignment within an element's box.
type AlignV string

const (
	AlignVTop    AlignV = "top"
	AlignVCenter AlignV = "center"
	AlignVBottom AlignV = "bottom"
)

// SizeMode picks between an explicit symbol size and one that grows to fill
// its box.
type SizeMode string

const (
	SizeModeFixed SizeMode = "fixed"
	SizeModeMax   SizeMode = "max"
)

// TextElement renders a (possibly wrapped/shrunk) run of text.
type TextElement struct {
	Common
	Text         string
	FontHeightMM float64
	FontWidthMM  float64 // 0 means "defaults to FontHeightMM"
	Wrap         Wrap
	Fit          Fit
	MaxLines     int
	AlignH       AlignH
	AlignV       AlignV
}

// QRElement renders a ZPL QR Code field, model fixed to 2.
type QRElement struct {
	Common
	Data            string
	Magnification   int // 0 means "auto by DPI"
	SizeMode        SizeMode
	ErrorCorrection string // L, M, Q, H
	InputMode       string // A, M
	CharacterMode   string // required iff InputMode == "M"
	QuietZoneMM     float64
	AlignH          AlignH
	AlignV          AlignV
}

// DataMatrixElement renders a ZPL DataMatrix field, ECC200 only.
type DataMatrixElement struct {
	Common
	Data        string
	ModuleSizeMM float64
	SizeMode    SizeMode
	Columns     int // 0 = auto
	Rows        int // 0 = auto
	Quality     int // fixed 200
	FormatID    int
	EscapeChar  string // exactly one character
	QuietZoneMM float64
	AlignH      AlignH
	AlignV      AlignV
}

// LineOrientation is the axis a line element runs along.
type LineOrientation string

const (
	LineHorizontal LineOrientation = "h"
	LineVertical   LineOrientation = "v"
)

// LineAlign positions a line on the axis perpendicular to its orientation.
type LineAlign string

const (
	LineAlignStart  LineAlign = "start"
	LineAlignCenter LineAlign = "center"
	LineAlignEnd    LineAlign = "end"
)

// LineElement renders a ZPL graphic-box used as a rule.
type LineElement struct {
	Common
	Orientation LineOrientation
	ThicknessMM float64
	Align       LineAlign
}

// ImageSourceKind is the way image bytes are supplied.
type ImageSourceKind string

const (
	ImageSourceBase64 ImageSourceKind = "base64"
	ImageSourceURL    ImageSourceKind = "url"
)

// ImageSource locates the raw image bytes to decode.
type ImageSource struct {
	Kind ImageSourceKind
	Data string
}

// ImageFit is the scale-to-box policy for an image element.
type ImageFit string

const (
	ImageFitNone     ImageFit = "none"
	ImageFitContain  ImageFit = "contain"
	ImageFitCover    ImageFit = "cover"
	ImageFitStretch  ImageFit = "stretch"
)

// ImageDither is the halftoning method used when packing to 1-bit.
type ImageDither string

const (
	DitherNone            ImageDither = "none"
	DitherFloydSteinberg  ImageDither = "floyd_steinberg"
	DitherBayer           ImageDither = "bayer"
)

// ImageElement renders a decoded raster image as a ZPL graphic field.
// Supplemented from original_source/zplgrid (model.py: ImageElement);
// spec.md's Non-goals do not exclude it.
type ImageElement struct {
	Common
	Source    ImageSource
	Fit       ImageFit
	AlignH    AlignH
	AlignV    AlignV
	InputDPI  int
	Threshold int // 0-255, default 128
	Dither    ImageDither
	Invert    bool
}

// Element is implemented by every element variant; Type reports the
// discriminator so the compiler can dispatch without a further type switch
// where only the tag is needed.
type Element interface {
	Type() ElementType
	common() Common
}

func (e TextElement) Type() ElementType       { return ElementText }
func (e TextElement) common() Common          { return e.Common }
func (e QRElement) Type() ElementType         { return ElementQR }
func (e QRElement) common() Common            { return e.Common }
func (e DataMatrixElement) Type() ElementType { return ElementDataMatrix }
func (e DataMatrixElement) common() Common    { return e.Common }
func (e LineElement) Type() ElementType       { return ElementLine }
func (e LineElement) common() Common          { return e.Common }
func (e ImageElement) Type() ElementType      { return ElementImage }
func (e ImageElement) common() Common         { return e.Common }

// CommonOf returns the shared fields of any element variant.
func CommonOf(e Element) Common { return e.common() }

// MissingVariablePolicy controls how the variable binder reacts to an
// unresolved placeholder.
type MissingVariablePolicy string

const (
	MissingVariablePolicyError MissingVariablePolicy = "error"
	MissingVariableEmpty       MissingVariablePolicy = "empty"
)

// RenderDefaults configures assembler-level behaviour.
type RenderDefaults struct {
	MissingVariables    MissingVariablePolicy
	EmitCI28            bool
	DebugPaddingGuides  bool
	DebugGutterGuides   bool
}

// Defaults holds the top-level `defaults` block, folded into each element by
// the defaults resolver before layout runs.
type Defaults struct {
	LeafPaddingMM Padding
	Text          map[string]any
	Code2D        map[string]any
	Image         map[string]any
	Render        RenderDefaults
}

// Document is a fully parsed (but not yet defaults-resolved) template.
type Document struct {
	SchemaVersion int
	Name          string
	Defaults      Defaults
	Layout        *Node
}
