package bind

import "github.com/zplgrid/zplgrid/template"

// Document substitutes every placeholder-bearing string field in a
// defaults-resolved tree (`text.text`, `qr.data`, `datamatrix.data`,
// `image.source.data`) and returns a new tree; the input is left untouched.
// Binding runs before layout so that text measurement sees the final
// string.
func Document(doc *template.Document, vars Variables) (*template.Document, error) {
	policy := doc.Defaults.Render.MissingVariables
	layout, err := bindNode(doc.Layout, "layout", vars, policy)
	if err != nil {
		return nil, err
	}
	out := *doc
	out.Layout = layout
	return &out, nil
}

func bindNode(n *template.Node, path string, vars Variables, policy template.MissingVariablePolicy) (*template.Node, error) {
	if n == nil {
		return nil, nil
	}
	cp := *n
	switch n.Kind {
	case template.KindSplit:
		c0, err := bindNode(n.Children[0], path+"/0", vars, policy)
		if err != nil {
			return nil, err
		}
		c1, err := bindNode(n.Children[1], path+"/1", vars, policy)
		if err != nil {
			return nil, err
		}
		cp.Children = [2]*template.Node{c0, c1}
	case template.KindLeaf:
		if len(n.Elements) == 1 {
			el, err := bindElement(n.Elements[0], path+".elements/0", vars, policy)
			if err != nil {
				return nil, err
			}
			cp.Elements = []template.Element{el}
		}
	}
	return &cp, nil
}

func bindElement(e template.Element, path string, vars Variables, policy template.MissingVariablePolicy) (template.Element, error) {
	switch el := e.(type) {
	case template.TextElement:
		bound, err := Substitute(path+".text", el.Text, vars, policy)
		if err != nil {
			return nil, err
		}
		el.Text = EscapeNewlines(bound)
		return el, nil
	case template.QRElement:
		bound, err := Substitute(path+".data", el.Data, vars, policy)
		if err != nil {
			return nil, err
		}
		el.Data = bound
		return el, nil
	case template.DataMatrixElement:
		bound, err := Substitute(path+".data", el.Data, vars, policy)
		if err != nil {
			return nil, err
		}
		el.Data = bound
		return el, nil
	case template.ImageElement:
		bound, err := Substitute(path+".source.data", el.Source.Data, vars, policy)
		if err != nil {
			return nil, err
		}
		el.Source.Data = bound
		return el, nil
	default:
		return e, nil
	}
}
