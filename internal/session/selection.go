package session

import (
	"log"

	"github.com/1broseidon/keytile/internal/grid"
)

// Phase represents the current phase of a placement session
type Phase int

const (
	// PhaseIdle means no session is active
	PhaseIdle Phase = iota
	// PhaseAwaitingFirst means the overlay is up and no corner is chosen yet
	PhaseAwaitingFirst
	// PhaseAwaitingSecond means the anchor corner is chosen
	PhaseAwaitingSecond
	// PhaseCommitted means the selection produced a span; terminal
	PhaseCommitted
	// PhaseCancelled means the session was abandoned; terminal
	PhaseCancelled
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingFirst:
		return "awaiting_first"
	case PhaseAwaitingSecond:
		return "awaiting_second"
	case PhaseCommitted:
		return "committed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (p Phase) terminal() bool {
	return p == PhaseCommitted || p == PhaseCancelled
}

// Selection tracks the two-keystroke corner selection for one session.
// The zero value is idle.
type Selection struct {
	phase  Phase
	anchor grid.Cell
	head   grid.Cell
}

// Phase returns the current phase.
func (s *Selection) Phase() Phase {
	return s.phase
}

// Anchor returns the first chosen corner. Valid from PhaseAwaitingSecond on.
func (s *Selection) Anchor() grid.Cell {
	return s.anchor
}

// Head returns the most recent corner. Equals the anchor until the second
// key arrives.
func (s *Selection) Head() grid.Cell {
	return s.head
}

// Span returns the committed cell range. Only meaningful in PhaseCommitted.
func (s *Selection) Span() grid.Span {
	return grid.NewSpan(s.anchor, s.head)
}

// Start moves an idle selection to awaiting the first corner.
func (s *Selection) Start() {
	if s.phase != PhaseIdle {
		log.Printf("selection: start ignored in phase %s", s.phase)
		return
	}
	s.phase = PhaseAwaitingFirst
}

// Pick records a chosen cell. The first pick sets both anchor and head; the
// second sets the head and commits. Returns true when the pick committed
// the selection.
func (s *Selection) Pick(cell grid.Cell) bool {
	switch s.phase {
	case PhaseAwaitingFirst:
		s.anchor = cell
		s.head = cell
		s.phase = PhaseAwaitingSecond
		return false
	case PhaseAwaitingSecond:
		s.head = cell
		s.phase = PhaseCommitted
		return true
	default:
		log.Printf("selection: pick ignored in phase %s", s.phase)
		return false
	}
}

// Cancel abandons the selection. No-op once terminal.
func (s *Selection) Cancel() {
	if s.phase.terminal() || s.phase == PhaseIdle {
		if s.phase != PhaseIdle {
			log.Printf("selection: cancel ignored in phase %s", s.phase)
		}
		return
	}
	s.phase = PhaseCancelled
}

// ClearAnchor drops a chosen anchor and returns to awaiting the first
// corner. Used when the user backs out of the first keystroke.
func (s *Selection) ClearAnchor() {
	if s.phase != PhaseAwaitingSecond {
		return
	}
	s.phase = PhaseAwaitingFirst
	s.anchor = grid.Cell{}
	s.head = grid.Cell{}
}

// Reset returns the selection to idle from any phase.
func (s *Selection) Reset() {
	*s = Selection{}
}
