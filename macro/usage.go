package macro

import (
	"regexp"

	"github.com/zplgrid/zplgrid/template"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::[^{}]*)?\}`)

// CollectUsed walks every substitution-bearing string field in the tree and
// returns the set of placeholder names referenced, so the binder only
// computes macros actually needed by this template.
func CollectUsed(root *template.Node) map[string]struct{} {
	used := map[string]struct{}{}
	var walk func(n *template.Node)
	walk = func(n *template.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case template.KindSplit:
			walk(n.Children[0])
			walk(n.Children[1])
		case template.KindLeaf:
			if len(n.Elements) != 1 {
				return
			}
			addFrom := func(text string) {
				for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
					used[m[1]] = struct{}{}
				}
			}
			switch el := n.Elements[0].(type) {
			case template.TextElement:
				addFrom(el.Text)
			case template.QRElement:
				addFrom(el.Data)
			case template.DataMatrixElement:
				addFrom(el.Data)
			case template.ImageElement:
				addFrom(el.Source.Data)
			}
		}
	}
	walk(root)
	return used
}
