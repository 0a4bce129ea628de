package session

import (
	"log"
	"sync"
	"time"

	"github.com/vanderheijden86/fold/pkg/debug"
	"github.com/vanderheijden86/fold/pkg/metrics"
)

// Fallback stagger used when no tab-ready acknowledgment arrives: the
// first extra tab is created after the base stagger, each subsequent one
// after the step stagger, and the final active-tab selection one base
// stagger after the last creation. With no acks a three-tab session fires
// at 0.5s, 0.8s and 1.3s.
const (
	restoreBaseStagger = 500 * time.Millisecond
	restoreStepStagger = 300 * time.Millisecond
)

// Document is the outline collaborator the coordinator restores focus
// into. It is the live tree, so a node id saved before the node was
// deleted can be detected and skipped.
type Document interface {
	SetFocusedNodeID(id string)
	NodeExists(id string) bool
	CollapseAll()
	RootFirstChildID() (string, bool)
}

// Windowing is the tab/window collaborator. It snapshots per-tab state
// for saving, holds the pending restore queues while recreating tabs, and
// exposes the externally-triggerable tab actions the replay driver fires.
// CreateTab and SelectActiveTab are called from timer goroutines and must
// be safe to invoke off the UI goroutine (the TUI implementation forwards
// them as program messages).
type Windowing interface {
	CurrentTabStates() []TabSnapshot
	ActiveTabIndex() int
	SetPendingRestore(q RestoreQueues, activeIndex int)
	CreateTab()
	SelectActiveTab()
}

// Settings is the persistent flag store.
type Settings interface {
	RestorePreviousSession() bool
	AutocompleteEnabled() bool
	SetAutocompleteEnabled(v bool)
}

// Coordinator owns session persistence and the restore replay. One
// coordinator is constructed at startup and passed by reference to
// whatever owns the application session; the one-shot latch is a plain
// field on it, not process-global state.
//
// All methods except NotifyTabReady are called from the UI goroutine.
// NotifyTabReady and the internal fallback timers synchronize through the
// replay driver's own lock.
type Coordinator struct {
	store    *Store
	settings Settings
	windows  Windowing
	sched    Scheduler

	restored bool   // one-shot latch: restoration runs at most once per process
	pending  *State // held for per-tab accessor reads until cleared
	replay   *replayDriver
}

// NewCoordinator creates a coordinator. A nil scheduler selects the
// production timer scheduler.
func NewCoordinator(store *Store, settings Settings, windows Windowing, sched Scheduler) *Coordinator {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Coordinator{
		store:    store,
		settings: settings,
		windows:  windows,
		sched:    sched,
	}
}

// SaveSession builds a session state from the given tab snapshots and
// writes it. Persistence failures are logged inside the store and never
// surface here.
func (c *Coordinator) SaveSession(tabs []TabSnapshot, activeTabIndex int, autocompleteEnabled bool, focusedNodeID string) {
	state := &State{
		Version:             StateVersion,
		FocusedNodeID:       focusedNodeID,
		Tabs:                tabs,
		ActiveTabIndex:      activeTabIndex,
		AutocompleteEnabled: autocompleteEnabled,
		SavedAt:             time.Now().UTC(),
	}
	c.store.Save(state)
}

// SaveCurrent snapshots the live windowing state and saves it.
func (c *Coordinator) SaveCurrent(focusedNodeID string) {
	c.SaveSession(
		c.windows.CurrentTabStates(),
		c.windows.ActiveTabIndex(),
		c.settings.AutocompleteEnabled(),
		focusedNodeID,
	)
}

// LoadSavedSession reads the saved session, or nil when there is nothing
// to restore.
func (c *Coordinator) LoadSavedSession() *State {
	return c.store.Load()
}

// RestoreSessionIfNeeded replays the saved session onto the document and
// windowing collaborators. When the restore-previous-session setting is
// off it instead resets to a fresh state (collapse all, focus the root's
// first child); that reset is intentionally idempotent and not gated by
// the latch, so repeated calls while disabled keep converging on the same
// fresh state. With the setting on, restoration runs at most once per
// process: the latch is set before any fallible work.
func (c *Coordinator) RestoreSessionIfNeeded(doc Document) {
	defer metrics.Timer(metrics.SessionRestore)()

	if !c.settings.RestorePreviousSession() {
		doc.CollapseAll()
		if id, ok := doc.RootFirstChildID(); ok {
			doc.SetFocusedNodeID(id)
		}
		return
	}
	if c.restored {
		return
	}
	c.restored = true

	state := c.LoadSavedSession()
	if state == nil {
		return
	}
	debug.Log("restoring session: %d tabs, active %d, saved %s",
		len(state.Tabs), state.ActiveTabIndex, state.SavedAt.Format(time.RFC3339))

	// Focus only survives if the node still exists in the live tree.
	if state.FocusedNodeID != "" {
		if doc.NodeExists(state.FocusedNodeID) {
			doc.SetFocusedNodeID(state.FocusedNodeID)
		} else {
			log.Printf("warning: saved focus node %s no longer exists, skipping", state.FocusedNodeID)
		}
	}
	c.settings.SetAutocompleteEnabled(state.AutocompleteEnabled)

	c.pending = state

	if len(state.Tabs) == 0 {
		return
	}

	active := state.ActiveTabIndex
	if active < 0 || active >= len(state.Tabs) {
		active = 0
	}
	c.windows.SetPendingRestore(queuesFromState(state), active)

	// The first tab already exists; each remaining tab needs one creation
	// trigger, then the active tab is selected once the last one is up.
	if len(state.Tabs) > 1 {
		c.replay = newReplayDriver(c.sched, len(state.Tabs), c.windows)
		c.replay.start()
	}
}

// NotifyTabReady tells the coordinator that tab index is fully constructed
// and has drained its queue entries. The replay driver advances to the
// next creation trigger without waiting for the fallback timer.
func (c *Coordinator) NotifyTabReady(index int) {
	if c.replay != nil {
		c.replay.ack(index)
	}
}

// RestoredZoomID returns the zoomed node id saved for the given tab, or
// false when nothing is pending or the index is out of range. Reads are
// idempotent: the windowing subsystem may re-query while building a tab.
func (c *Coordinator) RestoredZoomID(index int) (string, bool) {
	if c.pending == nil || index < 0 || index >= len(c.pending.Tabs) {
		return "", false
	}
	id := c.pending.Tabs[index].ZoomedNodeID
	return id, id != ""
}

// RestoredCollapsedIDs returns the collapsed node ids saved for the given
// tab; nil when nothing is pending or the index is out of range.
func (c *Coordinator) RestoredCollapsedIDs(index int) []string {
	if c.pending == nil || index < 0 || index >= len(c.pending.Tabs) {
		return nil
	}
	return c.pending.Tabs[index].CollapsedNodeIDs
}

// HasPendingRestore reports whether restored per-tab state is retained.
func (c *Coordinator) HasPendingRestore() bool {
	return c.pending != nil
}

// ClearPendingRestore drops the retained session state once the windowing
// subsystem signals it is done consuming it.
func (c *Coordinator) ClearPendingRestore() {
	c.pending = nil
}

// replayDriver paces the creation of the remaining tabs. Each step fires
// when the previous tab acknowledges readiness, or when a bounded fallback
// timer expires, whichever comes first; every step fires exactly once.
// Step k creates tab k+1; the final step selects the active tab.
type replayDriver struct {
	mu      sync.Mutex
	sched   Scheduler
	windows Windowing
	delays  []time.Duration // fallback delay of each step, relative to the previous fire
	actions []func()
	next    int
	stop    func() bool // cancels the currently armed fallback timer
}

func newReplayDriver(sched Scheduler, tabCount int, windows Windowing) *replayDriver {
	d := &replayDriver{sched: sched, windows: windows}
	for i := 1; i < tabCount; i++ {
		delay := restoreStepStagger
		if i == 1 {
			delay = restoreBaseStagger
		}
		d.delays = append(d.delays, delay)
		d.actions = append(d.actions, windows.CreateTab)
	}
	d.delays = append(d.delays, restoreBaseStagger)
	d.actions = append(d.actions, windows.SelectActiveTab)
	return d
}

// start arms the fallback timer for the first step.
func (d *replayDriver) start() {
	d.mu.Lock()
	d.arm()
	d.mu.Unlock()
}

// arm schedules the fallback for the next step. Caller holds mu.
func (d *replayDriver) arm() {
	if d.next >= len(d.actions) {
		return
	}
	idx := d.next
	d.stop = d.sched.After(d.delays[idx], func() { d.fire(idx) })
}

// fire runs step idx if it is still the one being waited on.
func (d *replayDriver) fire(idx int) {
	d.mu.Lock()
	if idx != d.next {
		d.mu.Unlock()
		return
	}
	run := d.advance()
	d.mu.Unlock()
	run()
}

// ack releases the step waiting on tab index. Acks for steps that already
// fired, or that are not next in line, are ignored.
func (d *replayDriver) ack(index int) {
	d.mu.Lock()
	if d.next >= len(d.actions) || index != d.next {
		d.mu.Unlock()
		return
	}
	if d.stop != nil {
		d.stop()
	}
	run := d.advance()
	d.mu.Unlock()
	run()
}

// advance consumes the next step and arms the following fallback. The
// returned action is run outside the lock: CreateTab may call back into
// the coordinator synchronously in tests. The next fallback is armed
// before the action runs, so its delay is measured from this trigger.
func (d *replayDriver) advance() func() {
	run := d.actions[d.next]
	d.next++
	d.arm()
	return run
}
