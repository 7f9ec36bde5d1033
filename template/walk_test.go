package template

import "testing"

func TestWalkCanonicalIDs(t *testing.T) {
	doc, err := Parse([]byte(qrLeftTextRightJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids []string
	Walk(doc.Layout, func(id string, n *Node) {
		ids = append(ids, id)
	})
	want := []string{"r", "r/0", "r/1"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestCanonicalIDStableUnderRatioChange(t *testing.T) {
	doc, err := Parse([]byte(qrLeftTextRightJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := map[string]string{}
	Walk(doc.Layout, func(id string, n *Node) { before[id] = string(n.Kind) })

	doc.Layout.Ratio = 0.8 // structural edit never happened, only a value changed

	after := map[string]string{}
	Walk(doc.Layout, func(id string, n *Node) { after[id] = string(n.Kind) })

	if len(before) != len(after) {
		t.Fatalf("id set changed after ratio edit: before=%v after=%v", before, after)
	}
	for id, kind := range before {
		if after[id] != kind {
			t.Errorf("id %q kind changed: before=%q after=%q", id, kind, after[id])
		}
	}
}
