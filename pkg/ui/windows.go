package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/fold/pkg/session"
)

// CreateTabMsg asks the model to construct one more tab. During session
// restore it is sent by the coordinator's replay driver; the new tab
// drains the head of the pending queues.
type CreateTabMsg struct{}

// SelectActiveTabMsg asks the model to select the restored active tab
// and finish the restore.
type SelectActiveTabMsg struct{}

// Windows is the windowing collaborator handed to the session
// coordinator. It bridges the coordinator's triggers (which fire on
// timer goroutines) into program messages, holds the pending restore
// queues until the model drains them, and mirrors the model's tab state
// so the coordinator can snapshot it from any goroutine.
type Windows struct {
	mu sync.Mutex

	send    func(tea.Msg)
	backlog []tea.Msg // triggers fired before Attach, flushed on Attach

	queues        session.RestoreQueues
	pendingActive int
	restoreCount  int // entries already consumed from the queues
	hasPending    bool

	tabStates []session.TabSnapshot
	active    int
	focused   string
}

// NewWindows creates the bridge. The send function is attached later,
// once the program exists.
func NewWindows() *Windows {
	return &Windows{}
}

// Attach connects the bridge to a running program's Send function and
// flushes triggers that fired before the program was up (the first
// tab's ready ack can release a creation trigger during construction).
func (w *Windows) Attach(send func(tea.Msg)) {
	w.mu.Lock()
	w.send = send
	backlog := w.backlog
	w.backlog = nil
	w.mu.Unlock()
	for _, msg := range backlog {
		send(msg)
	}
}

// CurrentTabStates implements session.Windowing.
func (w *Windows) CurrentTabStates() []session.TabSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]session.TabSnapshot, len(w.tabStates))
	copy(out, w.tabStates)
	return out
}

// ActiveTabIndex implements session.Windowing.
func (w *Windows) ActiveTabIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// SetPendingRestore implements session.Windowing.
func (w *Windows) SetPendingRestore(q session.RestoreQueues, activeIndex int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queues = q
	w.pendingActive = activeIndex
	w.restoreCount = 0
	w.hasPending = q.Len() > 0
}

// CreateTab implements session.Windowing. Safe to call from timer
// goroutines.
func (w *Windows) CreateTab() {
	w.post(CreateTabMsg{})
}

// SelectActiveTab implements session.Windowing.
func (w *Windows) SelectActiveTab() {
	w.post(SelectActiveTabMsg{})
}

func (w *Windows) post(msg tea.Msg) {
	w.mu.Lock()
	if w.send == nil {
		w.backlog = append(w.backlog, msg)
		w.mu.Unlock()
		return
	}
	send := w.send
	w.mu.Unlock()
	send(msg)
}

// nextRestoredTab hands out the next unconsumed queue entry, in FIFO
// order: the first call feeds the first tab, the second the second, and
// so on. ok is false once the queues are exhausted or no restore is
// pending — a manually created tab then starts fresh.
func (w *Windows) nextRestoredTab() (zoomID string, collapsed []string, fontSize float64, alwaysOnTop bool, index int, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasPending || w.restoreCount >= w.queues.Len() {
		return "", nil, 0, false, 0, false
	}
	i := w.restoreCount
	w.restoreCount++
	return w.queues.ZoomedNodeIDs[i], w.queues.CollapsedIDs[i], w.queues.FontSizes[i], w.queues.AlwaysOnTop[i], i, true
}

// restoredActiveIndex returns the active tab index saved with the
// session.
func (w *Windows) restoredActiveIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pendingActive
}

// finishRestore drops the queue state after the active tab is selected.
func (w *Windows) finishRestore() {
	w.mu.Lock()
	w.hasPending = false
	w.queues = session.RestoreQueues{}
	w.mu.Unlock()
}

// FocusedNodeID returns the focused node id from the last published
// snapshot.
func (w *Windows) FocusedNodeID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// publish mirrors the model's current tab state for off-goroutine
// readers (the autosave loop snapshots through CurrentTabStates).
func (w *Windows) publish(tabs []session.TabSnapshot, active int, focused string) {
	w.mu.Lock()
	w.tabStates = tabs
	w.active = active
	w.focused = focused
	w.mu.Unlock()
}
