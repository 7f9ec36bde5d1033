package layout

import (
	"testing"

	"github.com/zplgrid/zplgrid/template"
)

func leafNode(padding template.Padding) *template.Node {
	return &template.Node{
		Kind:      template.KindLeaf,
		PaddingMM: &padding,
		Elements: []template.Element{
			template.LineElement{Orientation: template.LineHorizontal, ThicknessMM: 0.3, Align: template.LineAlignCenter},
		},
	}
}

func TestDotAccountingVerticalSplit(t *testing.T) {
	// spec.md §8 scenario 3: parent width 591 dots, gutter 8 dots, ratio 0.3
	// -> child0 = 174, child1 = 409, sum with gutter = 591.
	root := &template.Node{
		Kind:      template.KindSplit,
		Direction: template.DirectionVertical,
		Ratio:     0.3,
		GutterMM:  1, // 1mm @ 203dpi = 8 dots
		Children:  [2]*template.Node{leafNode(template.Padding{}), leafNode(template.Padding{})},
	}
	target := template.Target{WidthMM: 74, HeightMM: 26, DPI: 203}
	res, err := Solve(root, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c0 := res.NodeRects["r/0"]
	c1 := res.NodeRects["r/1"]
	root_ := res.NodeRects["r"]
	if c0.W != 174 {
		t.Errorf("child0 width = %d, want 174", c0.W)
	}
	if c1.W != 409 {
		t.Errorf("child1 width = %d, want 409", c1.W)
	}
	gutterDots := c1.X - (c0.X + c0.W)
	if c0.W+gutterDots+c1.W != root_.W {
		t.Errorf("child0 + gutter + child1 = %d, want %d", c0.W+gutterDots+c1.W, root_.W)
	}
}

func TestSplitInvariantHoldsForArbitraryRatios(t *testing.T) {
	ratios := []float64{0.1, 0.25, 0.5, 0.75, 0.9}
	for _, ratio := range ratios {
		root := &template.Node{
			Kind:      template.KindSplit,
			Direction: template.DirectionHorizontal,
			Ratio:     ratio,
			GutterMM:  0.5,
			Children:  [2]*template.Node{leafNode(template.Padding{}), leafNode(template.Padding{})},
		}
		target := template.Target{WidthMM: 50, HeightMM: 30, DPI: 300}
		res, err := Solve(root, target)
		if err != nil {
			t.Fatalf("ratio %g: unexpected error: %v", ratio, err)
		}
		c0 := res.NodeRects["r/0"]
		c1 := res.NodeRects["r/1"]
		root_ := res.NodeRects["r"]
		gutterDots := c1.Y - (c0.Y + c0.H)
		if got := c0.H + gutterDots + c1.H; got != root_.H {
			t.Errorf("ratio %g: child0 + gutter + child1 = %d, want %d", ratio, got, root_.H)
		}
		if c0.H < 0 || c1.H < 0 {
			t.Errorf("ratio %g: negative child length", ratio)
		}
	}
}

func TestGutterExceedsParentFails(t *testing.T) {
	root := &template.Node{
		Kind:      template.KindSplit,
		Direction: template.DirectionVertical,
		Ratio:     0.5,
		GutterMM:  1000,
		Children:  [2]*template.Node{leafNode(template.Padding{}), leafNode(template.Padding{})},
	}
	target := template.Target{WidthMM: 20, HeightMM: 20, DPI: 203}
	_, err := Solve(root, target)
	if err == nil {
		t.Fatal("expected LayoutError when gutter exceeds parent length")
	}
}

func TestDividerCenteredInGutter(t *testing.T) {
	root := &template.Node{
		Kind:      template.KindSplit,
		Direction: template.DirectionVertical,
		Ratio:     0.5,
		GutterMM:  2,
		Divider:   template.Divider{Visible: true, ThicknessMM: 0.3},
		Children:  [2]*template.Node{leafNode(template.Padding{}), leafNode(template.Padding{})},
	}
	target := template.Target{WidthMM: 74, HeightMM: 26, DPI: 203}
	res, err := Solve(root, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Dividers) != 1 {
		t.Fatalf("expected 1 divider, got %d", len(res.Dividers))
	}
	d := res.Dividers[0].Rect
	c0 := res.NodeRects["r/0"]
	c1 := res.NodeRects["r/1"]
	gutterStart := c0.X + c0.W
	gutterEnd := c1.X
	if d.X < gutterStart || d.X+d.W > gutterEnd {
		t.Errorf("divider rect %+v not inside gutter [%d,%d]", d, gutterStart, gutterEnd)
	}
}

func TestLeafContentRectSubtractsPadding(t *testing.T) {
	root := leafNode(template.Padding{Top: 1, Right: 1, Bottom: 1, Left: 1})
	target := template.Target{WidthMM: 20, HeightMM: 20, DPI: 203}
	res, err := Solve(root, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	full := res.NodeRects["r"]
	content := res.ContentRects["r"]
	padDots := 8 // 1mm @ 203dpi
	if content.W != full.W-2*padDots {
		t.Errorf("content width = %d, want %d", content.W, full.W-2*padDots)
	}
	if content.H != full.H-2*padDots {
		t.Errorf("content height = %d, want %d", content.H, full.H-2*padDots)
	}
}
