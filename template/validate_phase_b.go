package template

import "fmt"

// validateInvariants runs Phase B: the cross-field rules the v1 schema
// cannot express (§3.6). It fails fast on the first violation.
func validateInvariants(doc *Document) error {
	if doc.Layout == nil {
		return nil // Phase A already recorded why.
	}
	seen := map[string]string{} // alias -> first path that declared it
	return checkNode(doc.Layout, "layout", seen)
}

func issueErr(i Issue) error { return i }

func checkNode(n *Node, path string, aliases map[string]string) error {
	if n == nil {
		return nil
	}
	if n.Alias != "" {
		if prior, ok := aliases[n.Alias]; ok {
			return issueErr(Issue{Kind: KindInvariant, Path: path, Message: fmt.Sprintf("alias %q already used at %s", n.Alias, prior)})
		}
		aliases[n.Alias] = path
	}

	switch n.Kind {
	case KindSplit:
		if !(n.Ratio > 0 && n.Ratio < 1) {
			return issueErr(Issue{Kind: KindInvariant, Path: path + ".ratio", Message: fmt.Sprintf("must be in open interval (0,1), got %g", n.Ratio)})
		}
		if n.Divider.Visible && n.GutterMM < n.Divider.ThicknessMM {
			return issueErr(Issue{Kind: KindInvariant, Path: path, Message: "divider.visible requires gutter_mm >= divider.thickness_mm"})
		}
		if err := checkNode(n.Children[0], path+"/0", aliases); err != nil {
			return err
		}
		if err := checkNode(n.Children[1], path+"/1", aliases); err != nil {
			return err
		}
	case KindLeaf:
		if len(n.Elements) != 1 {
			return issueErr(Issue{Kind: KindInvariant, Path: path, Message: fmt.Sprintf("leaf must contain exactly one element, got %d", len(n.Elements))})
		}
		if err := checkElement(n.Elements[0], path+".elements/0"); err != nil {
			return err
		}
	}
	return nil
}

func checkElement(e Element, path string) error {
	switch el := e.(type) {
	case QRElement:
		if el.InputMode == "M" && el.CharacterMode == "" {
			return issueErr(Issue{Kind: KindInvariant, Path: path, Message: "input_mode=M requires character_mode"})
		}
	case DataMatrixElement:
		if el.SizeMode == SizeModeMax && (el.Columns == 0 || el.Rows == 0) {
			return issueErr(Issue{Kind: KindInvariant, Path: path, Message: "size_mode=max requires both columns > 0 and rows > 0"})
		}
	}
	return nil
}
