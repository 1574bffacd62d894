package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/1broseidon/keytile/internal/grid"
	"github.com/1broseidon/keytile/internal/platform"
)

// Placer moves the target window when a selection commits.
type Placer interface {
	// PlaceWindow moves and resizes the window to the given rectangle.
	PlaceWindow(id platform.WindowID, rect grid.Rect) error
	// WindowExists reports whether the window is still mapped.
	WindowExists(id platform.WindowID) (bool, error)
}

// Renderer draws the grid overlay for the current session snapshot.
type Renderer interface {
	Render(snap Snapshot) error
	Hide()
}

// Target is the window captured when a session opens. The bounds are the
// window's geometry at capture time and are only used to seed the monitor
// context; the window may move afterwards without affecting the session.
type Target struct {
	Window platform.WindowID
	Bounds grid.Rect
}

// Snapshot is a read-only projection of the active session for rendering
// and status reporting.
type Snapshot struct {
	Active       bool       `json:"active"`
	Phase        string     `json:"phase"`
	Target       uint32     `json:"target,omitempty"`
	Grid         grid.Config `json:"grid"`
	WorkArea     grid.Rect  `json:"work_area"`
	MonitorName  string     `json:"monitor_name,omitempty"`
	MonitorIndex int        `json:"monitor_index"`
	MonitorCount int        `json:"monitor_count"`
	HasAnchor    bool       `json:"has_anchor"`
	Anchor       grid.Cell  `json:"anchor"`
}

type activeSession struct {
	target    Target
	cfg       grid.Config
	monitors  *MonitorContext
	selection Selection
}

// Controller owns at most one placement session at a time and drives the
// selection state machine from key and monitor events.
type Controller struct {
	mu       sync.Mutex
	cfg      grid.Config
	placer   Placer
	renderer Renderer
	current  *activeSession
	onClose  func()
}

// NewController creates a controller with no active session.
func NewController(cfg grid.Config, placer Placer, renderer Renderer) *Controller {
	return &Controller{
		cfg:      cfg,
		placer:   placer,
		renderer: renderer,
	}
}

// SetOnClose registers a callback invoked whenever a session ends, by
// commit, cancel or a lost target. Used to release the keyboard grab.
func (c *Controller) SetOnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// SetGridConfig replaces the grid configuration used for future sessions.
// An in-flight session keeps the configuration it opened with.
func (c *Controller) SetGridConfig(cfg grid.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Invoke opens a session for the target window. The hotkey firing while a
// session is already active is ignored. The monitor list is captured for
// the lifetime of the session.
func (c *Controller) Invoke(target Target, monitors []Monitor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		log.Printf("session: invoke ignored, session already active (phase %s)",
			c.current.selection.Phase())
		return nil
	}

	mc, err := NewMonitorContext(monitors, target.Bounds)
	if err != nil {
		return err
	}
	if err := grid.Validate(mc.Active().WorkArea, c.cfg); err != nil {
		return fmt.Errorf("cannot open session: %w", err)
	}

	sess := &activeSession{target: target, cfg: c.cfg, monitors: mc}
	sess.selection.Start()
	c.current = sess
	return c.render()
}

// HandleKey processes a grid key during an active session. Keys that do
// not map into the configured grid are ignored. When the second corner
// lands, the window is placed and the session closes.
func (c *Controller) HandleKey(key rune) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		log.Printf("session: key %q ignored, no active session", key)
		return nil
	}

	cell, ok := grid.CellForKey(key, c.current.cfg.Rows, c.current.cfg.Columns)
	if !ok {
		return nil
	}

	if committed := c.current.selection.Pick(cell); !committed {
		return c.render()
	}
	return c.commit()
}

// commit places the target window onto the committed span and closes the
// session. Caller holds the lock.
func (c *Controller) commit() error {
	sess := c.current
	span := sess.selection.Span()
	work := sess.monitors.Active().WorkArea

	rect, err := grid.Resolve(span, work, sess.cfg)
	if err != nil {
		c.close()
		return fmt.Errorf("resolve span: %w", err)
	}

	exists, err := c.placer.WindowExists(sess.target.Window)
	if err != nil || !exists {
		sess.selection.Cancel()
		c.close()
		if err != nil {
			return fmt.Errorf("check target window: %w", err)
		}
		log.Printf("session: target window 0x%x gone, placement suppressed", sess.target.Window)
		return nil
	}

	if err := c.placer.PlaceWindow(sess.target.Window, rect); err != nil {
		c.close()
		return fmt.Errorf("place window: %w", err)
	}

	log.Printf("session: placed window 0x%x at %d,%d %dx%d (span r%d-%d c%d-%d)",
		sess.target.Window, rect.X, rect.Y, rect.Width, rect.Height,
		span.MinRow, span.MaxRow, span.MinCol, span.MaxCol)
	c.close()
	return nil
}

// Cancel abandons the active session without placing anything.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}
	c.current.selection.Cancel()
	c.close()
}

// ClearAnchor backs out of the first corner without ending the session.
func (c *Controller) ClearAnchor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	c.current.selection.ClearAnchor()
	return c.render()
}

// CycleMonitor moves the grid to the next monitor. A chosen anchor
// survives the move; the committed span resolves against whichever
// monitor is active when the second corner lands.
func (c *Controller) CycleMonitor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	mon := c.current.monitors.CycleNext()
	if err := grid.Validate(mon.WorkArea, c.current.cfg); err != nil {
		// The grid cannot fit this monitor. Keep cycling rather than
		// stranding the session on an unusable work area.
		log.Printf("session: monitor %q skipped: %v", mon.Name, err)
		for i := 1; i < c.current.monitors.Count(); i++ {
			mon = c.current.monitors.CycleNext()
			if grid.Validate(mon.WorkArea, c.current.cfg) == nil {
				break
			}
		}
	}
	return c.render()
}

// NotifyWindowClosed cancels the session if its target window was
// destroyed. Placement never happens for a lost target.
func (c *Controller) NotifyWindowClosed(id platform.WindowID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.target.Window != id {
		return
	}
	log.Printf("session: target window 0x%x closed, cancelling", id)
	c.current.selection.Cancel()
	c.close()
}

// Snapshot returns the current session state for rendering and the status
// command. With no active session only Active=false is meaningful.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	if c.current == nil {
		return Snapshot{Phase: PhaseIdle.String(), Grid: c.cfg}
	}
	sess := c.current
	mon := sess.monitors.Active()
	snap := Snapshot{
		Active:       true,
		Phase:        sess.selection.Phase().String(),
		Target:       uint32(sess.target.Window),
		Grid:         sess.cfg,
		WorkArea:     mon.WorkArea,
		MonitorName:  mon.Name,
		MonitorIndex: sess.monitors.ActiveIndex(),
		MonitorCount: sess.monitors.Count(),
	}
	if sess.selection.Phase() == PhaseAwaitingSecond {
		snap.HasAnchor = true
		snap.Anchor = sess.selection.Anchor()
	}
	return snap
}

// close tears down the active session and hides the overlay. Caller holds
// the lock.
func (c *Controller) close() {
	c.current = nil
	if c.renderer != nil {
		c.renderer.Hide()
	}
	if c.onClose != nil {
		c.onClose()
	}
}

func (c *Controller) render() error {
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Render(c.snapshotLocked())
}
