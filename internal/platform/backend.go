package platform

import "github.com/1broseidon/keytile/internal/grid"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Primary bool
	Bounds  grid.Rect
	Usable  grid.Rect
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	WindowBounds(id WindowID) (grid.Rect, error)
	IsPlaceable(id WindowID) bool
	MoveResize(id WindowID, bounds grid.Rect) error
	WindowExists(id WindowID) (bool, error)
}
