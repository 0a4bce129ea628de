package model

import "testing"

// testOutline builds:
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
//	    └── b1
func testOutline() *Outline {
	root := &Node{ID: "root", Title: "Root", Children: []*Node{
		{ID: "a", Title: "A", Children: []*Node{
			{ID: "a1", Title: "A1"},
			{ID: "a2", Title: "A2"},
		}},
		{ID: "b", Title: "B", Children: []*Node{
			{ID: "b1", Title: "B1"},
		}},
	}}
	return NewOutline(root)
}

func TestFindNode(t *testing.T) {
	o := testOutline()
	if n, ok := o.FindNode("a1"); !ok || n.Title != "A1" {
		t.Errorf("FindNode(a1) = %v, %v", n, ok)
	}
	if _, ok := o.FindNode("nope"); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestFocusIgnoresUnknownID(t *testing.T) {
	o := testOutline()
	o.SetFocusedNodeID("a")
	o.SetFocusedNodeID("deleted-node")
	if got := o.FocusedNodeID(); got != "a" {
		t.Errorf("focused = %q, want a", got)
	}
	o.SetFocusedNodeID("")
	if got := o.FocusedNodeID(); got != "" {
		t.Errorf("focused = %q, want empty", got)
	}
}

func TestRootFirstChildID(t *testing.T) {
	o := testOutline()
	if id, ok := o.RootFirstChildID(); !ok || id != "a" {
		t.Errorf("RootFirstChildID = %q, %v", id, ok)
	}

	empty := NewOutline(&Node{ID: "r", Title: "R"})
	if _, ok := empty.RootFirstChildID(); ok {
		t.Error("expected no first child for leaf root")
	}
}

func TestCollapseAll(t *testing.T) {
	o := testOutline()
	o.CollapseAll()

	want := []string{"a", "b", "root"}
	got := o.CollapsedIDs()
	if len(got) != len(want) {
		t.Fatalf("CollapsedIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CollapsedIDs = %v, want %v", got, want)
		}
	}
	if o.IsCollapsed("a1") {
		t.Error("leaf nodes should not be collapsed")
	}
}

func TestSetCollapsedIDsDropsStale(t *testing.T) {
	o := testOutline()
	o.SetCollapsedIDs([]string{"a", "ghost"})
	if !o.IsCollapsed("a") {
		t.Error("expected a collapsed")
	}
	if o.IsCollapsed("ghost") {
		t.Error("stale id should have been dropped")
	}
}

func TestVisibleRows(t *testing.T) {
	o := testOutline()

	rows := o.VisibleRows("")
	wantIDs := []string{"a", "a1", "a2", "b", "b1"}
	if len(rows) != len(wantIDs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantIDs))
	}
	for i, id := range wantIDs {
		if rows[i].Node.ID != id {
			t.Errorf("row %d = %s, want %s", i, rows[i].Node.ID, id)
		}
	}
	if rows[0].Depth != 0 || rows[1].Depth != 1 {
		t.Errorf("depths = %d,%d, want 0,1", rows[0].Depth, rows[1].Depth)
	}
}

func TestVisibleRowsHonorsCollapse(t *testing.T) {
	o := testOutline()
	o.SetCollapsed("a", true)

	rows := o.VisibleRows("")
	wantIDs := []string{"a", "b", "b1"}
	if len(rows) != len(wantIDs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantIDs))
	}
	if !rows[0].Collapsed || !rows[0].HasChildren {
		t.Error("expected a marked collapsed with children")
	}
}

func TestVisibleRowsZoomed(t *testing.T) {
	o := testOutline()
	rows := o.VisibleRows("a")
	if len(rows) != 2 || rows[0].Node.ID != "a1" || rows[1].Node.ID != "a2" {
		t.Fatalf("zoomed rows = %v", rows)
	}
	if rows[0].Depth != 0 {
		t.Errorf("zoomed child depth = %d, want 0", rows[0].Depth)
	}

	// Unknown zoom target falls back to the whole tree.
	if got := len(o.VisibleRows("ghost")); got != 5 {
		t.Errorf("fallback rows = %d, want 5", got)
	}
}

func TestAddChild(t *testing.T) {
	o := testOutline()
	n, err := o.AddChild("b", "B2")
	if err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	if !o.NodeExists(n.ID) {
		t.Error("new node missing from index")
	}
	if _, err := o.AddChild("ghost", "X"); err == nil {
		t.Error("expected error for unknown parent")
	}
}

func TestNewNodeIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewNodeID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
