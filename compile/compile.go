package compile

import (
	"fmt"

	"github.com/zplgrid/zplgrid/bind"
	"github.com/zplgrid/zplgrid/layout"
	"github.com/zplgrid/zplgrid/measure"
	"github.com/zplgrid/zplgrid/template"
	"github.com/zplgrid/zplgrid/units"
	"github.com/zplgrid/zplgrid/zpl"
)

// Options controls compile-time overrides that sit outside the template
// document itself.
type Options struct {
	// Debug forces a border around every leaf's content rect, in addition
	// to any debug_border set on individual leaves.
	Debug bool
	// Measurer overrides the default Monospace text measurer.
	Measurer measure.Measurer
}

// Compile runs the full pipeline — defaults resolution, placeholder
// binding, layout solving, and element emission — producing one ZPL
// program. variables must already include any resolved macros; Compile
// performs no macro resolution itself (that is a caller concern, since
// macros may need a counter store).
func Compile(doc *template.Document, target template.Target, variables map[string]string, opts Options) (string, error) {
	resolved := template.ResolveDefaults(doc)

	bound, err := bind.Document(resolved, bind.Variables(variables))
	if err != nil {
		return "", err
	}

	res, err := layout.Solve(bound.Layout, target)
	if err != nil {
		return "", err
	}

	measurer := opts.Measurer
	if measurer == nil {
		measurer = measure.Monospace{}
	}

	dpi := target.DPI
	originX, err := units.MMToDots(target.OriginXMM, dpi)
	if err != nil {
		return "", &template.LayoutError{Path: "$.target.origin_x_mm", Message: err.Error()}
	}
	originY, err := units.MMToDots(target.OriginYMM, dpi)
	if err != nil {
		return "", &template.LayoutError{Path: "$.target.origin_y_mm", Message: err.Error()}
	}
	widthDots, err := units.MMToDots(target.WidthMM, dpi)
	if err != nil {
		return "", &template.LayoutError{Path: "$.target.width_mm", Message: err.Error()}
	}
	heightDots, err := units.MMToDots(target.HeightMM, dpi)
	if err != nil {
		return "", &template.LayoutError{Path: "$.target.height_mm", Message: err.Error()}
	}

	renderDefaults := bound.Defaults.Render
	z := zpl.New(zpl.Options{EmitCI28: renderDefaults.EmitCI28})
	z.StartLabel(widthDots, heightDots, originX, originY)

	for _, d := range res.Dividers {
		if d.Rect.W <= 0 || d.Rect.H <= 0 {
			continue
		}
		emitDivider(z, d.Rect)
	}

	if renderDefaults.DebugGutterGuides {
		for _, g := range res.Gutters {
			emitGuide(z, g.Rect)
		}
	}

	if err := emitLeaves(z, bound.Layout, res, "r", opts.Debug, renderDefaults.DebugPaddingGuides, dpi, measurer); err != nil {
		return "", err
	}

	z.EndLabel()
	return z.Build(), nil
}

func emitLeaves(z *zpl.Builder, n *template.Node, res *layout.Result, path string, forceDebug, debugPadding bool, dpi int, measurer measure.Measurer) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case template.KindSplit:
		if err := emitLeaves(z, n.Children[0], res, path+"/0", forceDebug, debugPadding, dpi, measurer); err != nil {
			return err
		}
		return emitLeaves(z, n.Children[1], res, path+"/1", forceDebug, debugPadding, dpi, measurer)
	case template.KindLeaf:
		return emitLeaf(z, n, res, path, forceDebug, debugPadding, dpi, measurer)
	}
	return nil
}

func emitLeaf(z *zpl.Builder, n *template.Node, res *layout.Result, path string, forceDebug, debugPadding bool, dpi int, measurer measure.Measurer) error {
	contentRect := res.ContentRects[path]

	if forceDebug || n.DebugBorder {
		emitGuide(z, contentRect)
	}
	if debugPadding {
		emitGuide(z, contentRect)
	}

	if len(n.Elements) != 1 {
		return nil
	}
	element := n.Elements[0]
	common := template.CommonOf(element)
	elementPath := path + ".elements/0"

	box, err := elementBox(common, contentRect, elementPath, dpi)
	if err != nil {
		return err
	}

	switch el := element.(type) {
	case template.TextElement:
		return emitText(z, el, box, elementPath, dpi, measurer)
	case template.QRElement:
		return emitQR(z, el, box, elementPath, dpi)
	case template.DataMatrixElement:
		return emitDataMatrix(z, el, box, elementPath, dpi)
	case template.LineElement:
		return emitLine(z, el, box, elementPath, dpi)
	case template.ImageElement:
		return emitImage(z, el, box, elementPath, dpi)
	default:
		return &template.UnsupportedError{Path: elementPath, Message: fmt.Sprintf("unsupported element type: %T", el)}
	}
}
