package session

import (
	"fmt"

	"github.com/1broseidon/keytile/internal/grid"
)

// Monitor describes one output with its usable work area (struts already
// subtracted).
type Monitor struct {
	Name     string
	WorkArea grid.Rect
	Primary  bool
}

// MonitorContext holds the monitor list for one session and which monitor
// the grid is currently shown on. The list is captured once when the
// session opens; hotplug during a session is not tracked.
type MonitorContext struct {
	monitors []Monitor
	active   int
}

// NewMonitorContext builds a context over the given monitors, seeded to the
// monitor containing the center of the target window bounds. If no monitor
// contains the center, the monitor with the greatest overlap wins, then the
// first monitor.
func NewMonitorContext(monitors []Monitor, target grid.Rect) (*MonitorContext, error) {
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors available")
	}
	return &MonitorContext{
		monitors: monitors,
		active:   seedIndex(monitors, target),
	}, nil
}

func seedIndex(monitors []Monitor, target grid.Rect) int {
	cx := target.X + target.Width/2
	cy := target.Y + target.Height/2
	for i, m := range monitors {
		if containsPoint(m.WorkArea, cx, cy) {
			return i
		}
	}

	best, bestArea := 0, 0
	for i, m := range monitors {
		if a := overlapArea(m.WorkArea, target); a > bestArea {
			best, bestArea = i, a
		}
	}
	return best
}

func containsPoint(r grid.Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func overlapArea(a, b grid.Rect) int {
	w := minInt(a.X+a.Width, b.X+b.Width) - maxInt(a.X, b.X)
	h := minInt(a.Y+a.Height, b.Y+b.Height) - maxInt(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Active returns the monitor the grid is currently shown on.
func (mc *MonitorContext) Active() Monitor {
	return mc.monitors[mc.active]
}

// ActiveIndex returns the index of the active monitor.
func (mc *MonitorContext) ActiveIndex() int {
	return mc.active
}

// Count returns the number of monitors in the context.
func (mc *MonitorContext) Count() int {
	return len(mc.monitors)
}

// Monitors returns the captured monitor list.
func (mc *MonitorContext) Monitors() []Monitor {
	return mc.monitors
}

// CycleNext advances to the next monitor, wrapping to the first after the
// last. With a single monitor it is a no-op.
func (mc *MonitorContext) CycleNext() Monitor {
	mc.active = (mc.active + 1) % len(mc.monitors)
	return mc.monitors[mc.active]
}
