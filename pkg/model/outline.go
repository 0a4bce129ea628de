// Package model holds the outline document: a tree of notes with a
// focused node and per-document collapse state. The session and
// navigation layers treat it through small interfaces; this is the one
// concrete implementation the app ships.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
)

// Node is one row of the outline.
type Node struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Note     string  `json:"note,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// NewNodeID returns a fresh random node id.
func NewNodeID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		return fmt.Sprintf("n-%x", len(b))
	}
	return "n-" + hex.EncodeToString(b[:])
}

// Outline is a document: the node tree plus view state that belongs to
// the document rather than to any one tab (focus, collapse map).
type Outline struct {
	Root *Node

	focused   string
	collapsed map[string]bool
	index     map[string]*Node
}

// NewOutline builds an outline around the given root. A nil root gets an
// empty untitled root node.
func NewOutline(root *Node) *Outline {
	if root == nil {
		root = &Node{ID: NewNodeID(), Title: "Untitled"}
	}
	o := &Outline{
		Root:      root,
		collapsed: make(map[string]bool),
	}
	o.Reindex()
	return o
}

// Reindex rebuilds the id lookup after structural edits.
func (o *Outline) Reindex() {
	o.index = make(map[string]*Node)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		o.index[n.ID] = n
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(o.Root)
}

// FindNode returns the node with the given id.
func (o *Outline) FindNode(id string) (*Node, bool) {
	n, ok := o.index[id]
	return n, ok
}

// NodeExists reports whether id is in the live tree.
func (o *Outline) NodeExists(id string) bool {
	_, ok := o.index[id]
	return ok
}

// FocusedNodeID returns the id of the focused node, or "".
func (o *Outline) FocusedNodeID() string {
	return o.focused
}

// SetFocusedNodeID moves focus. Unknown ids are ignored so a stale
// reference can never focus a deleted node.
func (o *Outline) SetFocusedNodeID(id string) {
	if id == "" || o.NodeExists(id) {
		o.focused = id
	}
}

// RootFirstChildID returns the id of the root's first child.
func (o *Outline) RootFirstChildID() (string, bool) {
	if o.Root == nil || len(o.Root.Children) == 0 {
		return "", false
	}
	return o.Root.Children[0].ID, true
}

// IsCollapsed reports whether the node is collapsed.
func (o *Outline) IsCollapsed(id string) bool {
	return o.collapsed[id]
}

// SetCollapsed marks a node collapsed or expanded.
func (o *Outline) SetCollapsed(id string, collapsed bool) {
	if collapsed {
		o.collapsed[id] = true
	} else {
		delete(o.collapsed, id)
	}
}

// CollapseAll collapses every node that has children.
func (o *Outline) CollapseAll() {
	o.collapsed = make(map[string]bool)
	for id, n := range o.index {
		if len(n.Children) > 0 {
			o.collapsed[id] = true
		}
	}
}

// ExpandAll clears the collapse map.
func (o *Outline) ExpandAll() {
	o.collapsed = make(map[string]bool)
}

// CollapsedIDs returns the collapsed node ids, sorted for deterministic
// serialization.
func (o *Outline) CollapsedIDs() []string {
	out := make([]string, 0, len(o.collapsed))
	for id := range o.collapsed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SetCollapsedIDs replaces the collapse map, dropping ids that no longer
// exist in the tree.
func (o *Outline) SetCollapsedIDs(ids []string) {
	o.collapsed = make(map[string]bool)
	for _, id := range ids {
		if o.NodeExists(id) {
			o.collapsed[id] = true
		}
	}
}

// AddChild appends a new node under parentID and returns it. Unknown
// parents fail.
func (o *Outline) AddChild(parentID, title string) (*Node, error) {
	parent, ok := o.index[parentID]
	if !ok {
		return nil, fmt.Errorf("parent node %s not found", parentID)
	}
	n := &Node{ID: NewNodeID(), Title: title}
	parent.Children = append(parent.Children, n)
	o.index[n.ID] = n
	return n, nil
}

// Row is one visible line of a flattened outline.
type Row struct {
	Node  *Node
	Depth int
	// HasChildren and Collapsed drive the disclosure marker.
	HasChildren bool
	Collapsed   bool
}

// VisibleRows flattens the subtree under zoomID (or the whole tree when
// zoomID is empty), skipping children of collapsed nodes. The zoom root
// itself is not included; its children are depth 0.
func (o *Outline) VisibleRows(zoomID string) []Row {
	return o.VisibleRowsFunc(zoomID, o.IsCollapsed)
}

// VisibleRowsFunc is VisibleRows with an external collapse predicate;
// tabs keep their own collapse state and flatten through this.
func (o *Outline) VisibleRowsFunc(zoomID string, isCollapsed func(id string) bool) []Row {
	root := o.Root
	if zoomID != "" {
		if n, ok := o.index[zoomID]; ok {
			root = n
		}
	}
	var rows []Row
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.Children {
			collapsed := isCollapsed(c.ID)
			rows = append(rows, Row{
				Node:        c,
				Depth:       depth,
				HasChildren: len(c.Children) > 0,
				Collapsed:   collapsed,
			})
			if len(c.Children) > 0 && !collapsed {
				walk(c, depth+1)
			}
		}
	}
	walk(root, 0)
	return rows
}
