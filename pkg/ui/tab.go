package ui

import (
	"sort"

	"github.com/vanderheijden86/fold/pkg/model"
	"github.com/vanderheijden86/fold/pkg/navigation"
	"github.com/vanderheijden86/fold/pkg/session"
)

// Tab is one editor window: a zoom history over the shared outline plus
// the per-tab view state that gets persisted with the session.
type Tab struct {
	history     *navigation.History
	collapsed   map[string]bool
	fontSize    float64
	alwaysOnTop bool

	// cursor is the selected index into the tab's visible rows.
	cursor int
}

// NewTab creates a tab at home with default view state. The initial
// collapse set is seeded from the document so a collapse-all reset
// carries into the first tab.
func NewTab(o *model.Outline) *Tab {
	t := &Tab{
		history:   navigation.NewHistory(),
		collapsed: make(map[string]bool),
		fontSize:  session.DefaultFontSize,
	}
	for _, id := range o.CollapsedIDs() {
		t.collapsed[id] = true
	}
	return t
}

// Zoom returns the tab's current location.
func (t *Tab) Zoom() navigation.Location {
	return t.history.Current()
}

// zoomID returns the zoomed node id, or "" at home.
func (t *Tab) zoomID() string {
	id, _ := t.Zoom().NodeID()
	return id
}

// History exposes the tab's navigation history for the carousel strip.
func (t *Tab) History() *navigation.History {
	return t.history
}

// IsCollapsed reports the tab-local collapse state of a node.
func (t *Tab) IsCollapsed(id string) bool {
	return t.collapsed[id]
}

// toggleCollapse flips the collapse state of a node.
func (t *Tab) toggleCollapse(id string) {
	if t.collapsed[id] {
		delete(t.collapsed, id)
	} else {
		t.collapsed[id] = true
	}
}

// collapseAll collapses every parent visible to this tab.
func (t *Tab) collapseAll(o *model.Outline) {
	t.collapsed = make(map[string]bool)
	for _, row := range o.VisibleRowsFunc(t.zoomID(), func(string) bool { return false }) {
		if row.HasChildren {
			t.collapsed[row.Node.ID] = true
		}
	}
}

// rows returns the tab's visible rows honoring its collapse state.
func (t *Tab) rows(o *model.Outline) []model.Row {
	return o.VisibleRowsFunc(t.zoomID(), t.IsCollapsed)
}

// clampCursor keeps the cursor on an existing row.
func (t *Tab) clampCursor(o *model.Outline) {
	n := len(t.rows(o))
	if n == 0 {
		t.cursor = 0
		return
	}
	if t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// Snapshot captures the tab state for persistence. Collapse ids pruned
// to live nodes so a deleted subtree doesn't fossilize in the session
// file; sorted for deterministic output.
func (t *Tab) Snapshot(o *model.Outline) session.TabSnapshot {
	snap := session.TabSnapshot{
		ZoomedNodeID: t.zoomID(),
		FontSize:     t.fontSize,
		AlwaysOnTop:  t.alwaysOnTop,
	}
	live := make([]string, 0, len(t.collapsed))
	for id := range t.collapsed {
		if o.NodeExists(id) {
			live = append(live, id)
		}
	}
	sort.Strings(live)
	snap.CollapsedNodeIDs = live
	return snap
}
