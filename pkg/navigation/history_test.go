package navigation

import (
	"testing"

	"pgregory.net/rapid"
)

func locs(h *History) []string {
	out := make([]string, 0, h.Len())
	for _, e := range h.Entries() {
		out = append(out, e.String())
	}
	return out
}

func assertHistory(t *testing.T, h *History, want []string, cursor int) {
	t.Helper()
	got := locs(h)
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v", got, want)
		}
	}
	if h.Cursor() != cursor {
		t.Fatalf("cursor = %d, want %d", h.Cursor(), cursor)
	}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	assertHistory(t, h, []string{"home"}, 0)
	if !h.Current().IsHome() {
		t.Error("expected initial location to be home")
	}
	if h.CanGoBack() || h.CanGoForward() {
		t.Error("fresh history should not allow back or forward")
	}
}

func TestPushAppendsAndMovesCursor(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	assertHistory(t, h, []string{"home", "a"}, 1)
	h.Push(Zoomed("b"))
	assertHistory(t, h, []string{"home", "a", "b"}, 2)
	if !h.CanGoBack() || h.CanGoForward() {
		t.Error("cursor at head should allow back only")
	}
}

func TestPushDeduplicatesConsecutive(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("a"))
	assertHistory(t, h, []string{"home", "a"}, 1)
}

func TestPushHomeOnHomeIsNoop(t *testing.T) {
	h := NewHistory()
	h.Push(Home)
	assertHistory(t, h, []string{"home"}, 0)

	h.Push(Zoomed("a"))
	h.Push(Home)
	h.Push(Home)
	assertHistory(t, h, []string{"home", "a", "home"}, 2)
}

func TestPushTruncatesForwardBranch(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))
	h.Pop()
	assertHistory(t, h, []string{"home", "a", "b"}, 1)

	// Zooming in from an earlier card discards the forward branch.
	h.Push(Zoomed("c"))
	assertHistory(t, h, []string{"home", "a", "c"}, 2)
}

func TestPopStopsAtZero(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Pop()
	h.Pop()
	h.Pop()
	assertHistory(t, h, []string{"home", "a"}, 0)
}

func TestNavigateToIgnoresOutOfRange(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))

	h.NavigateTo(1)
	assertHistory(t, h, []string{"home", "a", "b"}, 1)

	h.NavigateTo(-1)
	h.NavigateTo(3)
	assertHistory(t, h, []string{"home", "a", "b"}, 1)
}

func TestGoHome(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))
	h.GoHome()
	if h.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", h.Cursor())
	}
}

func TestRemoveSingleEntryFails(t *testing.T) {
	h := NewHistory()
	if h.Remove(0) {
		t.Error("removing the last remaining entry should fail")
	}
	assertHistory(t, h, []string{"home"}, 0)
}

func TestRemoveOutOfRangeFails(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	if h.Remove(-1) || h.Remove(2) {
		t.Error("out-of-range remove should fail")
	}
	assertHistory(t, h, []string{"home", "a"}, 1)
}

func TestRemoveBeforeCursorDecrements(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))
	// cursor 2 on "b"; removing "a" keeps the cursor on "b"
	if !h.Remove(1) {
		t.Fatal("remove failed")
	}
	assertHistory(t, h, []string{"home", "b"}, 1)
	if got, _ := h.Current().NodeID(); got != "b" {
		t.Errorf("current = %q, want b", got)
	}
}

func TestRemoveAfterCursorLeavesCursor(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))
	h.NavigateTo(1)
	if !h.Remove(2) {
		t.Fatal("remove failed")
	}
	assertHistory(t, h, []string{"home", "a"}, 1)
}

func TestRemoveAtCursorClamps(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))
	// cursor 2 on "b"; removing it clamps the cursor to the new head
	if !h.Remove(2) {
		t.Fatal("remove failed")
	}
	assertHistory(t, h, []string{"home", "a"}, 1)
}

func TestRemoveCollapsesSeamDuplicates(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Home)
	// [home a home]; removing "a" would leave two adjacent homes
	if !h.Remove(1) {
		t.Fatal("remove failed")
	}
	assertHistory(t, h, []string{"home"}, 0)
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))
	h.Clear()
	assertHistory(t, h, []string{"home"}, 0)
}

func TestSyncWithZoom(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))

	// Current location: no-op.
	h.SyncWithZoom(Zoomed("b"))
	assertHistory(t, h, []string{"home", "a", "b"}, 2)

	// Existing location: cursor moves, nothing appended.
	h.SyncWithZoom(Zoomed("a"))
	assertHistory(t, h, []string{"home", "a", "b"}, 1)

	// Unknown location: pushed, truncating the forward branch.
	h.SyncWithZoom(Zoomed("c"))
	assertHistory(t, h, []string{"home", "a", "c"}, 2)
}

func TestContains(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	if !h.Contains(Zoomed("a")) || !h.Contains(Home) {
		t.Error("expected both home and a to be present")
	}
	if h.Contains(Zoomed("b")) {
		t.Error("did not expect b to be present")
	}
}

func TestNavigateOrPush(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("a"))
	h.Push(Zoomed("b"))

	if got := h.NavigateOrPush(Zoomed("a")); got != NavigatedExisting {
		t.Errorf("result = %v, want NavigatedExisting", got)
	}
	assertHistory(t, h, []string{"home", "a", "b"}, 1)

	if got := h.NavigateOrPush(Zoomed("c")); got != PushedNew {
		t.Errorf("result = %v, want PushedNew", got)
	}
	assertHistory(t, h, []string{"home", "a", "c"}, 2)
}

// TestCarouselScenario walks the push/pop/push flow from the carousel:
// zoom a, zoom b, swipe back, zoom c truncates b.
func TestCarouselScenario(t *testing.T) {
	h := NewHistory()
	h.Push(Zoomed("A"))
	assertHistory(t, h, []string{"home", "A"}, 1)
	h.Push(Zoomed("B"))
	assertHistory(t, h, []string{"home", "A", "B"}, 2)
	h.Pop()
	assertHistory(t, h, []string{"home", "A", "B"}, 1)
	h.Push(Zoomed("C"))
	assertHistory(t, h, []string{"home", "A", "C"}, 2)
}

// TestHistoryInvariants drives random operation sequences and checks the
// structural invariants after every step: at least one entry, cursor in
// range, and no two adjacent Home entries.
func TestHistoryInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := NewHistory()
		ids := []string{"", "a", "b", "c", "d"}

		steps := rapid.IntRange(0, 200).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			op := rapid.IntRange(0, 7).Draw(t, "op")
			switch op {
			case 0:
				h.Push(Zoomed(rapid.SampledFrom(ids).Draw(t, "push")))
			case 1:
				h.Pop()
			case 2:
				h.NavigateTo(rapid.IntRange(-2, 8).Draw(t, "nav"))
			case 3:
				h.GoHome()
			case 4:
				h.Remove(rapid.IntRange(-2, 8).Draw(t, "rm"))
			case 5:
				h.SyncWithZoom(Zoomed(rapid.SampledFrom(ids).Draw(t, "sync")))
			case 6:
				h.NavigateOrPush(Zoomed(rapid.SampledFrom(ids).Draw(t, "navpush")))
			case 7:
				h.Clear()
			}

			if h.Len() < 1 {
				t.Fatalf("history emptied after op %d", op)
			}
			if h.Cursor() < 0 || h.Cursor() >= h.Len() {
				t.Fatalf("cursor %d out of range [0,%d) after op %d", h.Cursor(), h.Len(), op)
			}
			entries := h.Entries()
			for i := 1; i < len(entries); i++ {
				if entries[i-1].IsHome() && entries[i].IsHome() {
					t.Fatalf("adjacent home entries at %d after op %d: %v", i, op, entries)
				}
			}
		}
	})
}
