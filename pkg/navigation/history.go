// Package navigation implements the zoom-history stack behind the card
// carousel. Each tab owns one History: zooming into a node pushes a new
// entry, the carousel moves the cursor, and zooming past an earlier point
// discards the forward branch, browser-style.
package navigation

// NavResult reports how NavigateOrPush resolved a location.
type NavResult int

const (
	// NavigatedExisting means the cursor moved to an entry already in history.
	NavigatedExisting NavResult = iota
	// PushedNew means the location was appended as a new entry.
	PushedNew
)

// History is an ordered, branch-truncating stack of locations with a
// cursor. It always contains at least one entry; a fresh History holds
// [Home] with the cursor at 0. Not safe for concurrent use: every History
// belongs to a single tab on the UI goroutine.
type History struct {
	entries []Location
	cursor  int
}

// NewHistory returns a history containing only Home.
func NewHistory() *History {
	return &History{entries: []Location{Home}}
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the current cursor index.
func (h *History) Cursor() int {
	return h.cursor
}

// At returns the entry at index i, or Home and false if out of range.
func (h *History) At(i int) (Location, bool) {
	if i < 0 || i >= len(h.entries) {
		return Home, false
	}
	return h.entries[i], true
}

// Current returns the entry under the cursor.
func (h *History) Current() Location {
	return h.entries[h.cursor]
}

// CanGoBack reports whether the cursor can move toward index 0.
func (h *History) CanGoBack() bool {
	return h.cursor > 0
}

// CanGoForward reports whether the cursor can move toward the head.
func (h *History) CanGoForward() bool {
	return h.cursor < len(h.entries)-1
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []Location {
	out := make([]Location, len(h.entries))
	copy(out, h.entries)
	return out
}

// Push records a zoom into loc. If the cursor sits before the head the
// forward branch is discarded first (zooming in from an earlier card
// abandons the old forward path). Pushing the same location twice in a
// row, or Home on top of Home, is a no-op.
func (h *History) Push(loc Location) {
	if h.cursor < len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	last := h.entries[len(h.entries)-1]
	if last == loc {
		return
	}
	h.entries = append(h.entries, loc)
	h.cursor = len(h.entries) - 1
}

// Pop moves the cursor one step back. Entries are kept so the user can
// still go forward; at index 0 this is a no-op.
func (h *History) Pop() {
	if h.cursor > 0 {
		h.cursor--
	}
}

// NavigateTo moves the cursor to index i. Out-of-range indexes are
// silently ignored; the carousel feeds raw card indexes through here.
func (h *History) NavigateTo(i int) {
	if i >= 0 && i < len(h.entries) {
		h.cursor = i
	}
}

// GoHome moves the cursor to index 0. Index 0 always exists, though its
// value may not be Home anymore if it was removed and replaced.
func (h *History) GoHome() {
	h.cursor = 0
}

// Remove deletes the entry at index i and reconciles the cursor so it
// keeps pointing at the same logical entry where possible. Removing the
// last remaining entry, or an out-of-range index, fails without mutating.
// A duplicate pair created at the seam (removing "a" from [home a home])
// is collapsed, matching Push's dedup rule.
func (h *History) Remove(i int) bool {
	if len(h.entries) <= 1 || i < 0 || i >= len(h.entries) {
		return false
	}
	h.removeAt(i)
	if i > 0 && i < len(h.entries) && len(h.entries) > 1 && h.entries[i-1] == h.entries[i] {
		h.removeAt(i)
	}
	return true
}

func (h *History) removeAt(i int) {
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	switch {
	case h.cursor >= len(h.entries):
		h.cursor = len(h.entries) - 1
	case i < h.cursor:
		h.cursor--
	}
}

// Clear resets the history to its initial state: [Home], cursor 0.
func (h *History) Clear() {
	h.entries = []Location{Home}
	h.cursor = 0
}

// Contains reports whether loc occurs anywhere in the history.
func (h *History) Contains(loc Location) bool {
	return h.indexOf(loc) >= 0
}

// SyncWithZoom reconciles the history with a zoom change that happened
// outside it (double-tap on a card, restore replay). If loc is already
// current nothing happens; if it exists elsewhere the cursor moves to its
// first occurrence; otherwise it is pushed.
func (h *History) SyncWithZoom(loc Location) {
	if h.Current() == loc {
		return
	}
	if i := h.indexOf(loc); i >= 0 {
		h.cursor = i
		return
	}
	h.Push(loc)
}

// NavigateOrPush moves the cursor to the first occurrence of loc if it is
// already in history, otherwise pushes it. The result tells the caller
// which of the two happened.
func (h *History) NavigateOrPush(loc Location) NavResult {
	if i := h.indexOf(loc); i >= 0 {
		h.cursor = i
		return NavigatedExisting
	}
	h.Push(loc)
	return PushedNew
}

// indexOf returns the first occurrence of loc, or -1. Earliest match wins
// on duplicates, though Push's dedup keeps duplicates from arising in
// normal use.
func (h *History) indexOf(loc Location) int {
	for i, e := range h.entries {
		if e == loc {
			return i
		}
	}
	return -1
}
