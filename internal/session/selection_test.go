package session

import (
	"testing"

	"github.com/1broseidon/keytile/internal/grid"
)

func TestSelectionLifecycle(t *testing.T) {
	var s Selection
	if s.Phase() != PhaseIdle {
		t.Fatalf("zero value phase = %s, want idle", s.Phase())
	}

	s.Start()
	if s.Phase() != PhaseAwaitingFirst {
		t.Fatalf("after Start phase = %s, want awaiting_first", s.Phase())
	}

	if committed := s.Pick(grid.Cell{Row: 1, Col: 2}); committed {
		t.Fatal("first pick reported committed")
	}
	if s.Phase() != PhaseAwaitingSecond {
		t.Fatalf("after first pick phase = %s, want awaiting_second", s.Phase())
	}
	if s.Anchor() != (grid.Cell{Row: 1, Col: 2}) || s.Head() != s.Anchor() {
		t.Fatalf("anchor=%+v head=%+v, want both {1 2}", s.Anchor(), s.Head())
	}

	if committed := s.Pick(grid.Cell{Row: 0, Col: 0}); !committed {
		t.Fatal("second pick did not commit")
	}
	if s.Phase() != PhaseCommitted {
		t.Fatalf("after second pick phase = %s, want committed", s.Phase())
	}
}

// The committed span is the bounding range of the two corners regardless of
// pick order.
func TestSelectionSpanOrderIndependent(t *testing.T) {
	a := grid.Cell{Row: 2, Col: 0}
	b := grid.Cell{Row: 0, Col: 3}
	want := grid.Span{MinRow: 0, MaxRow: 2, MinCol: 0, MaxCol: 3}

	for _, corners := range [][2]grid.Cell{{a, b}, {b, a}} {
		var s Selection
		s.Start()
		s.Pick(corners[0])
		s.Pick(corners[1])
		if got := s.Span(); got != want {
			t.Errorf("picks %+v then %+v: span = %+v, want %+v", corners[0], corners[1], got, want)
		}
	}
}

func TestSelectionCancelIsTerminal(t *testing.T) {
	var s Selection
	s.Start()
	s.Pick(grid.Cell{Row: 0, Col: 0})
	s.Cancel()
	if s.Phase() != PhaseCancelled {
		t.Fatalf("phase = %s, want cancelled", s.Phase())
	}

	// Further events must not move a terminal selection.
	if committed := s.Pick(grid.Cell{Row: 1, Col: 1}); committed {
		t.Error("pick after cancel reported committed")
	}
	s.Start()
	s.Cancel()
	if s.Phase() != PhaseCancelled {
		t.Errorf("phase after stale events = %s, want cancelled", s.Phase())
	}
}

func TestSelectionClearAnchor(t *testing.T) {
	var s Selection
	s.Start()
	s.Pick(grid.Cell{Row: 2, Col: 2})
	s.ClearAnchor()
	if s.Phase() != PhaseAwaitingFirst {
		t.Fatalf("phase = %s, want awaiting_first", s.Phase())
	}

	// ClearAnchor is only meaningful with an anchor chosen.
	s.ClearAnchor()
	if s.Phase() != PhaseAwaitingFirst {
		t.Errorf("phase = %s, want awaiting_first", s.Phase())
	}
}
