//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/keytile/internal/grid"
	"github.com/1broseidon/keytile/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays with strut-adjusted work areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:      m.ID,
			Name:    m.Name,
			Primary: m.Primary,
			Bounds:  grid.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Usable:  grid.Rect{X: m.WorkX, Y: m.WorkY, Width: m.WorkWidth, Height: m.WorkHeight},
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	if wid == 0 {
		return 0, fmt.Errorf("no focused window")
	}
	return WindowID(wid), nil
}

// WindowBounds returns a window's geometry in root coordinates.
func (b *LinuxBackend) WindowBounds(id WindowID) (grid.Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return grid.Rect{}, err
	}

	x, y, w, h, err := conn.GetWindowRect(xproto.Window(id))
	if err != nil {
		return grid.Rect{}, err
	}
	return grid.Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// IsPlaceable reports whether the window is a normal application window
// rather than a dock, desktop or other special surface.
func (b *LinuxBackend) IsPlaceable(id WindowID) bool {
	if b == nil || b.conn == nil {
		return false
	}
	return b.conn.IsNormalWindow(xproto.Window(id))
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(id WindowID, bounds grid.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(id),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// WindowExists reports whether the window is still a valid X resource.
func (b *LinuxBackend) WindowExists(id WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.WindowExists(xproto.Window(id)), nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
