// Package ui is the terminal front end: a tab bar, the zoom-history
// carousel strip, and the flattened outline under the current zoom. It
// implements the windowing side of session restore: new tabs drain the
// pending restore queues head-first and acknowledge the coordinator once
// they are up.
package ui

import (
	"fmt"
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/fold/pkg/config"
	"github.com/vanderheijden86/fold/pkg/debug"
	"github.com/vanderheijden86/fold/pkg/model"
	"github.com/vanderheijden86/fold/pkg/navigation"
	"github.com/vanderheijden86/fold/pkg/session"
)

// OutlineChangedMsg is sent when the outline file changes on disk
// (usually a sync-layer write) and the document has been reloaded.
type OutlineChangedMsg struct {
	Outline *model.Outline
}

// Font size bounds for the +/- keys.
const (
	minFontSize = 8.0
	maxFontSize = 36.0
)

// Model is the bubbletea model for fold.
type Model struct {
	outline  *model.Outline
	coord    *session.Coordinator
	windows  *Windows
	settings *config.Store

	tabs   []*Tab
	active int

	width, height int
	ready         bool

	noteView viewport.Model
	showNote bool
	renderer *glamour.TermRenderer

	input       textinput.Model
	inputActive bool

	form       *huh.Form
	formValues formValues

	save func(*model.Outline) error

	status string
}

type formValues struct {
	restoreSession bool
	autocomplete   bool
}

// NewModel builds the model with one home tab. If a session restore is
// pending, the first tab immediately drains queue entry 0 and acks.
func NewModel(outline *model.Outline, coord *session.Coordinator, windows *Windows, settings *config.Store) Model {
	input := textinput.New()
	input.Placeholder = "new node title"
	input.CharLimit = 200

	m := Model{
		outline:  outline,
		coord:    coord,
		windows:  windows,
		settings: settings,
		tabs:     []*Tab{NewTab(outline)},
		input:    input,
	}
	m.applyPendingToTab(0)
	m.publish()
	return m
}

// WithSaver sets the document persistence function, called after edits
// and on quit.
func (m Model) WithSaver(save func(*model.Outline) error) Model {
	m.save = save
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Tabs returns the live tabs; the carousel strip and tests read through
// this.
func (m Model) Tabs() []*Tab {
	return m.tabs
}

// ActiveTab returns the index of the frontmost tab.
func (m Model) ActiveTab() int {
	return m.active
}

// TabStates snapshots every tab for session persistence.
func (m Model) TabStates() []session.TabSnapshot {
	out := make([]session.TabSnapshot, 0, len(m.tabs))
	for _, t := range m.tabs {
		out = append(out, t.Snapshot(m.outline))
	}
	return out
}

// applyPendingToTab drains the next restore queue entry into the tab at
// tabIndex and acknowledges it, if a restore is pending. Zoom and
// collapse come through the coordinator's idempotent per-tab accessors;
// font size and pin ride the queues directly.
func (m *Model) applyPendingToTab(tabIndex int) {
	_, _, fontSize, alwaysOnTop, queueIndex, ok := m.windows.nextRestoredTab()
	if !ok {
		return
	}
	t := m.tabs[tabIndex]
	if zoomID, ok := m.coord.RestoredZoomID(queueIndex); ok {
		if m.outline.NodeExists(zoomID) {
			t.history.SyncWithZoom(navigation.Zoomed(zoomID))
		} else {
			debug.Log("restored zoom node %s is gone, tab %d stays home", zoomID, tabIndex)
		}
	}
	t.collapsed = make(map[string]bool)
	for _, id := range m.coord.RestoredCollapsedIDs(queueIndex) {
		if m.outline.NodeExists(id) {
			t.collapsed[id] = true
		}
	}
	if fontSize > 0 {
		t.fontSize = fontSize
	}
	t.alwaysOnTop = alwaysOnTop
	m.coord.NotifyTabReady(queueIndex)
}

// publish mirrors tab state into the windows bridge for off-goroutine
// snapshots.
func (m *Model) publish() {
	m.windows.publish(m.TabStates(), m.active, m.outline.FocusedNodeID())
}

func (m *Model) tab() *Tab {
	return m.tabs[m.active]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.noteView = viewport.New(msg.Width, max(msg.Height-6, 3))
		m.ready = true
		m.renderer = nil // rebuild at the new width on next use
		m.publish()
		return m, nil

	case CreateTabMsg:
		m.tabs = append(m.tabs, NewTab(m.outline))
		m.active = len(m.tabs) - 1
		m.applyPendingToTab(m.active)
		m.publish()
		return m, nil

	case SelectActiveTabMsg:
		idx := m.windows.restoredActiveIndex()
		if idx >= 0 && idx < len(m.tabs) {
			m.active = idx
		}
		m.windows.finishRestore()
		m.coord.ClearPendingRestore()
		m.publish()
		return m, nil

	case OutlineChangedMsg:
		m.outline = msg.Outline
		for _, t := range m.tabs {
			// Drop zoom targets the reloaded document no longer has.
			if id := t.zoomID(); id != "" && !m.outline.NodeExists(id) {
				t.history.SyncWithZoom(navigation.Home)
			}
			t.clampCursor(m.outline)
		}
		m.status = "outline reloaded from disk"
		m.publish()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.inputActive {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.inputActive {
		return m.updateInput(msg)
	}

	t := m.tab()
	switch msg.String() {
	case "q", "ctrl+c":
		m.saveOutline()
		return m, tea.Quit

	// Tab management.
	case "tab":
		m.active = (m.active + 1) % len(m.tabs)
	case "shift+tab":
		m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
	case "t":
		m.tabs = append(m.tabs, NewTab(m.outline))
		m.active = len(m.tabs) - 1
	case "w":
		if len(m.tabs) > 1 {
			m.tabs = append(m.tabs[:m.active], m.tabs[m.active+1:]...)
			if m.active >= len(m.tabs) {
				m.active = len(m.tabs) - 1
			}
		}
	case "P":
		t.alwaysOnTop = !t.alwaysOnTop
		if t.alwaysOnTop {
			m.status = "tab pinned on top"
		} else {
			m.status = "tab unpinned"
		}

	// Outline cursor.
	case "j", "down":
		t.cursor++
		t.clampCursor(m.outline)
	case "k", "up":
		t.cursor--
		t.clampCursor(m.outline)

	// Zoom navigation: the carousel.
	case "enter", "l":
		if row, ok := m.selectedRow(); ok && row.HasChildren {
			t.history.Push(navigation.Zoomed(row.Node.ID))
			t.cursor = 0
		}
	case "backspace", "h":
		t.history.Pop()
		t.clampCursor(m.outline)
	case "left":
		t.history.NavigateTo(t.history.Cursor() - 1)
		t.clampCursor(m.outline)
	case "right":
		t.history.NavigateTo(t.history.Cursor() + 1)
		t.clampCursor(m.outline)
	case "H":
		t.history.GoHome()
		t.clampCursor(m.outline)
	case "X":
		// Drop the current card from the carousel.
		if t.history.Remove(t.history.Cursor()) {
			t.clampCursor(m.outline)
		}

	// Collapse state.
	case "z":
		if row, ok := m.selectedRow(); ok && row.HasChildren {
			t.toggleCollapse(row.Node.ID)
			t.clampCursor(m.outline)
		}
	case "Z":
		t.collapseAll(m.outline)
		t.clampCursor(m.outline)
	case "E":
		t.collapsed = make(map[string]bool)

	// Editing and utilities.
	case "n":
		m.inputActive = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case "y":
		if row, ok := m.selectedRow(); ok {
			if err := clipboard.WriteAll(row.Node.ID); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = fmt.Sprintf("copied %s", row.Node.ID)
			}
		}
	case "m":
		m.showNote = !m.showNote
		if m.showNote {
			m.renderNote()
		}
	case "+", "=":
		if t.fontSize < maxFontSize {
			t.fontSize++
		}
	case "-", "_":
		if t.fontSize > minFontSize {
			t.fontSize--
		}

	case "s":
		m.openSettingsForm()
		return m, m.form.Init()
	}

	m.publish()
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputActive = false
		m.input.Blur()
		return m, nil
	case "enter":
		title := m.input.Value()
		m.inputActive = false
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		parentID := m.tab().zoomID()
		if parentID == "" {
			parentID = m.outline.Root.ID
		}
		if row, ok := m.selectedRow(); ok {
			parentID = row.Node.ID
		}
		if n, err := m.outline.AddChild(parentID, title); err == nil {
			m.outline.SetFocusedNodeID(n.ID)
			m.status = fmt.Sprintf("added %q", title)
			m.saveOutline()
		}
		m.publish()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// openSettingsForm builds the huh form over the two preference flags.
func (m *Model) openSettingsForm() {
	m.formValues = formValues{
		restoreSession: m.settings.RestorePreviousSession(),
		autocomplete:   m.settings.AutocompleteEnabled(),
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Restore previous session on launch").
				Value(&m.formValues.restoreSession),
			huh.NewConfirm().
				Title("Autocomplete node titles").
				Value(&m.formValues.autocomplete),
		),
	)
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.settings.SetRestorePreviousSession(m.formValues.restoreSession)
		m.settings.SetAutocompleteEnabled(m.formValues.autocomplete)
		m.form = nil
		m.status = "settings saved"
	case huh.StateAborted:
		m.form = nil
	}
	return m, cmd
}

func (m *Model) saveOutline() {
	if m.save == nil {
		return
	}
	if err := m.save(m.outline); err != nil {
		log.Printf("warning: failed to save outline: %v", err)
		m.status = "outline save failed"
	}
}

// selectedRow returns the row under the tab cursor.
func (m Model) selectedRow() (model.Row, bool) {
	rows := m.tab().rows(m.outline)
	if len(rows) == 0 || m.tab().cursor >= len(rows) {
		return model.Row{}, false
	}
	return rows[m.tab().cursor], true
}

// renderNote renders the selected node's note through glamour into the
// viewport.
func (m *Model) renderNote() {
	row, ok := m.selectedRow()
	if !ok || row.Node.Note == "" {
		m.noteView.SetContent("(no note)")
		return
	}
	if m.renderer == nil {
		width := m.width
		if width <= 0 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-2),
		)
		if err != nil {
			m.noteView.SetContent(row.Node.Note)
			return
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(row.Node.Note)
	if err != nil {
		out = row.Node.Note
	}
	m.noteView.SetContent(out)
}
