// Package session persists and restores multi-tab editor state across
// application restarts: per-tab zoom focus, collapsed nodes, font size and
// window pinning, plus the focused node and active tab.
//
// The session file is pretty-printed JSON with a stable field order so
// sync-layer diffs stay readable:
//
//	{
//	  "version": 1,
//	  "focusedNodeId": "n-12",
//	  "tabs": [
//	    {"zoomedNodeId": "n-4", "collapsedNodeIds": ["n-7"], "fontSize": 13, "alwaysOnTop": false}
//	  ],
//	  "activeTabIndex": 0,
//	  "autocompleteEnabled": true,
//	  "savedAt": "2026-08-23T10:00:00Z"
//	}
//
// A missing or corrupted file degrades to "no session": restoration must
// never block startup.
package session

import "time"

// StateVersion is the current schema version of the session file.
const StateVersion = 1

// DefaultFontSize is the editor font size used when a snapshot carries
// none (older files, or tabs saved before the field existed).
const DefaultFontSize = 13.0

// TabSnapshot is the serializable state of one tab.
type TabSnapshot struct {
	// ZoomedNodeID is the node the tab is zoomed into; empty means home.
	ZoomedNodeID string `json:"zoomedNodeId,omitempty"`
	// CollapsedNodeIDs lists the nodes collapsed in this tab.
	CollapsedNodeIDs []string `json:"collapsedNodeIds,omitempty"`
	// FontSize is the editor font size in points.
	FontSize float64 `json:"fontSize"`
	// AlwaysOnTop pins the tab's window above others.
	AlwaysOnTop bool `json:"alwaysOnTop"`
}

// NewTabSnapshot returns a snapshot with defaults applied.
func NewTabSnapshot() TabSnapshot {
	return TabSnapshot{FontSize: DefaultFontSize}
}

// State is the full saved session.
type State struct {
	Version int `json:"version"`
	// FocusedNodeID is the node holding keyboard focus; empty means none.
	FocusedNodeID string `json:"focusedNodeId,omitempty"`
	// Tabs is the authoritative ordered tab list.
	Tabs []TabSnapshot `json:"tabs"`
	// ActiveTabIndex selects the frontmost tab; meaningful only when
	// 0 <= ActiveTabIndex < len(Tabs).
	ActiveTabIndex int `json:"activeTabIndex"`
	// AutocompleteEnabled mirrors the autocomplete settings flag at save
	// time so a restored session brings the toggle back with it.
	AutocompleteEnabled bool `json:"autocompleteEnabled"`
	// SavedAt records when the session was written.
	SavedAt time.Time `json:"savedAt"`
}

// normalize applies defaults to fields older files may lack.
func (s *State) normalize() {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	for i := range s.Tabs {
		if s.Tabs[i].FontSize <= 0 {
			s.Tabs[i].FontSize = DefaultFontSize
		}
	}
}

// RestoreQueues are the four parallel FIFO queues the windowing subsystem
// drains while recreating tabs: entry i of every queue belongs to the i-th
// restored tab.
type RestoreQueues struct {
	ZoomedNodeIDs []string // "" = home
	CollapsedIDs  [][]string
	FontSizes     []float64
	AlwaysOnTop   []bool
}

// Len returns the number of tabs the queues cover.
func (q RestoreQueues) Len() int {
	return len(q.ZoomedNodeIDs)
}

// queuesFromState builds the parallel queues in tab order.
func queuesFromState(s *State) RestoreQueues {
	q := RestoreQueues{
		ZoomedNodeIDs: make([]string, 0, len(s.Tabs)),
		CollapsedIDs:  make([][]string, 0, len(s.Tabs)),
		FontSizes:     make([]float64, 0, len(s.Tabs)),
		AlwaysOnTop:   make([]bool, 0, len(s.Tabs)),
	}
	for _, tab := range s.Tabs {
		q.ZoomedNodeIDs = append(q.ZoomedNodeIDs, tab.ZoomedNodeID)
		q.CollapsedIDs = append(q.CollapsedIDs, tab.CollapsedNodeIDs)
		q.FontSizes = append(q.FontSizes, tab.FontSize)
		q.AlwaysOnTop = append(q.AlwaysOnTop, tab.AlwaysOnTop)
	}
	return q
}
