package navigation

// Location identifies where a tab is zoomed in the outline. The zero value
// is Home (the unzoomed root view). Using a tagged value instead of an
// optional node id means "two different kinds of empty" cannot be
// represented, so consecutive-Home dedup in History is a structural
// guarantee rather than a runtime check on nil.
type Location struct {
	nodeID string
}

// Home is the root/unzoomed location.
var Home = Location{}

// Zoomed returns the location for a zoomed node. An empty id is Home.
func Zoomed(nodeID string) Location {
	return Location{nodeID: nodeID}
}

// IsHome reports whether the location is the unzoomed root view.
func (l Location) IsHome() bool {
	return l.nodeID == ""
}

// NodeID returns the zoomed node id and whether the location is zoomed.
func (l Location) NodeID() (string, bool) {
	return l.nodeID, l.nodeID != ""
}

// String returns a short label for logs and debug output.
func (l Location) String() string {
	if l.IsHome() {
		return "home"
	}
	return l.nodeID
}
