// Package daemon wires the X11 backend, session controller and overlay
// together and carries out IPC commands against them.
package daemon

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/keytile/internal/config"
	"github.com/1broseidon/keytile/internal/grid"
	"github.com/1broseidon/keytile/internal/hotkeys"
	"github.com/1broseidon/keytile/internal/ipc"
	"github.com/1broseidon/keytile/internal/overlay"
	"github.com/1broseidon/keytile/internal/platform"
	"github.com/1broseidon/keytile/internal/session"
)

// backendPlacer adapts the platform backend to the controller's placer
// interface.
type backendPlacer struct {
	backend platform.Backend
}

func (p backendPlacer) PlaceWindow(id platform.WindowID, rect grid.Rect) error {
	return p.backend.MoveResize(id, rect)
}

func (p backendPlacer) WindowExists(id platform.WindowID) (bool, error) {
	return p.backend.WindowExists(id)
}

// Daemon owns the long-running state of a keytile process. It implements
// ipc.Handler so the socket server can drive it directly.
type Daemon struct {
	mu      sync.RWMutex
	cfg     *config.Config
	cfgPath string

	backend    *platform.LinuxBackend
	controller *session.Controller
	overlay    *overlay.Manager
	grab       *hotkeys.Grab
	hotkeys    *hotkeys.Handler

	startTime time.Time
}

// New builds a daemon around an established X connection. The hotkey is
// not registered until RegisterHotkey is called.
func New(cfg *config.Config, cfgPath string, backend *platform.LinuxBackend) (*Daemon, error) {
	ov := overlay.NewManager(backend.XUtil(), backend.RootWindow())
	ov.SetColors(overlayColors(cfg))

	ctrl := session.NewController(cfg.GridSettings(), backendPlacer{backend: backend}, ov)

	d := &Daemon{
		cfg:        cfg,
		cfgPath:    cfgPath,
		backend:    backend,
		controller: ctrl,
		overlay:    ov,
		hotkeys:    hotkeys.NewHandler(backend),
		startTime:  time.Now(),
	}
	d.grab = hotkeys.NewGrab(backend.XUtil(), backend.RootWindow(), ctrl)

	// Every session end releases the keyboard, whichever path closed it.
	ctrl.SetOnClose(d.grab.Release)

	return d, nil
}

// RegisterHotkey binds the configured invocation hotkey.
func (d *Daemon) RegisterHotkey() error {
	d.mu.RLock()
	hotkey := d.cfg.Hotkey
	d.mu.RUnlock()

	return d.hotkeys.Register(hotkey, func() {
		if err := d.InvokeSession(); err != nil {
			log.Printf("daemon: invoke failed: %v", err)
		}
	})
}

// Shutdown tears down overlay windows and the keyboard grab. The X
// connection itself is owned by the caller.
func (d *Daemon) Shutdown() {
	d.controller.Cancel()
	d.overlay.Cleanup()
	d.hotkeys.Unregister()
}

// InvokeSession opens a placement session for the focused window and
// grabs the keyboard. A hotkey press while a session is active is a
// no-op inside the controller.
func (d *Daemon) InvokeSession() error {
	if d.controller.Active() {
		log.Printf("daemon: invoke ignored, session already active")
		return nil
	}

	win, err := d.backend.ActiveWindow()
	if err != nil {
		return fmt.Errorf("no target window: %w", err)
	}
	if !d.backend.IsPlaceable(win) {
		return fmt.Errorf("focused window 0x%x is not placeable", win)
	}
	bounds, err := d.backend.WindowBounds(win)
	if err != nil {
		return fmt.Errorf("window geometry: %w", err)
	}

	displays, err := d.backend.Displays()
	if err != nil {
		return fmt.Errorf("monitor detection: %w", err)
	}
	monitors := sessionMonitors(displays)

	target := session.Target{Window: win, Bounds: bounds}
	if err := d.controller.Invoke(target, monitors); err != nil {
		return err
	}
	if err := d.grab.Acquire(); err != nil {
		d.controller.Cancel()
		return fmt.Errorf("keyboard grab: %w", err)
	}
	d.watchTarget(win)
	return nil
}

// watchTarget subscribes to destroy notifications for the session's
// target window. A target destroyed mid-session cancels the session
// immediately instead of failing at commit time.
func (d *Daemon) watchTarget(win platform.WindowID) {
	xu := d.backend.XUtil()
	wid := xproto.Window(win)

	// Event mask selection is per-client; this does not disturb the
	// window's owner.
	xproto.ChangeWindowAttributes(xu.Conn(), wid,
		xproto.CwEventMask, []uint32{uint32(xproto.EventMaskStructureNotify)})

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		d.controller.NotifyWindowClosed(platform.WindowID(ev.Window))
		xevent.Detach(xu, ev.Window)
	}).Connect(xu, wid)
}

// CancelSession dismisses the active session, if any.
func (d *Daemon) CancelSession() {
	d.controller.Cancel()
}

// ReloadConfig re-reads the config file and applies it. An invalid file
// leaves the running configuration untouched.
func (d *Daemon) ReloadConfig() error {
	cfg, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		return err
	}
	return d.ApplyConfig(cfg)
}

// ApplyConfig swaps in a new configuration, rebinding the hotkey when it
// changed. An in-flight session keeps its grid until it closes.
func (d *Daemon) ApplyConfig(cfg *config.Config) error {
	d.mu.Lock()
	old := d.cfg
	d.cfg = cfg
	d.mu.Unlock()

	d.controller.SetGridConfig(cfg.GridSettings())
	d.overlay.SetColors(overlayColors(cfg))

	if old.Hotkey != cfg.Hotkey {
		d.hotkeys.Unregister()
		if err := d.RegisterHotkey(); err != nil {
			return fmt.Errorf("rebind hotkey %q: %w", cfg.Hotkey, err)
		}
		log.Printf("daemon: hotkey rebound from %s to %s", old.Hotkey, cfg.Hotkey)
	}

	log.Printf("daemon: config applied (grid %dx%d gap %d)",
		cfg.Grid.Columns, cfg.Grid.Rows, cfg.Grid.Gap)
	return nil
}

// Status reports daemon uptime and the current session snapshot.
func (d *Daemon) Status() ipc.StatusData {
	d.mu.RLock()
	hotkey := d.cfg.Hotkey
	d.mu.RUnlock()

	return ipc.StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
		Hotkey:        hotkey,
		Session:       d.controller.Snapshot(),
	}
}

// Monitors returns the current monitor layout.
func (d *Daemon) Monitors() ([]ipc.MonitorInfo, error) {
	displays, err := d.backend.Displays()
	if err != nil {
		return nil, err
	}
	infos := make([]ipc.MonitorInfo, 0, len(displays))
	for _, disp := range displays {
		infos = append(infos, ipc.MonitorInfo{
			ID:       disp.ID,
			Name:     disp.Name,
			Primary:  disp.Primary,
			Bounds:   disp.Bounds,
			WorkArea: disp.Usable,
		})
	}
	return infos, nil
}

// Place snaps a window into a grid span directly, without an interactive
// session. Window 0 targets the focused window; Monitor -1 targets the
// monitor the window sits on.
func (d *Daemon) Place(p ipc.PlacePayload) (ipc.PlaceResult, error) {
	d.mu.RLock()
	gridCfg := d.cfg.GridSettings()
	d.mu.RUnlock()

	win := platform.WindowID(p.Window)
	if win == 0 {
		active, err := d.backend.ActiveWindow()
		if err != nil {
			return ipc.PlaceResult{}, fmt.Errorf("no target window: %w", err)
		}
		win = active
	}
	if !d.backend.IsPlaceable(win) {
		return ipc.PlaceResult{}, fmt.Errorf("window 0x%x is not placeable", win)
	}

	span := p.Span()
	if span.MinRow < 0 || span.MaxRow >= gridCfg.Rows ||
		span.MinCol < 0 || span.MaxCol >= gridCfg.Columns {
		return ipc.PlaceResult{}, fmt.Errorf(
			"span rows %d-%d cols %d-%d outside %dx%d grid",
			span.MinRow, span.MaxRow, span.MinCol, span.MaxCol,
			gridCfg.Rows, gridCfg.Columns)
	}

	displays, err := d.backend.Displays()
	if err != nil {
		return ipc.PlaceResult{}, err
	}
	work, err := d.placementArea(displays, p.Monitor, win)
	if err != nil {
		return ipc.PlaceResult{}, err
	}

	rect, err := grid.Resolve(span, work, gridCfg)
	if err != nil {
		return ipc.PlaceResult{}, err
	}
	if err := d.backend.MoveResize(win, rect); err != nil {
		return ipc.PlaceResult{}, fmt.Errorf("move window 0x%x: %w", win, err)
	}
	log.Printf("daemon: placed window 0x%x at %d,%d %dx%d",
		win, rect.X, rect.Y, rect.Width, rect.Height)
	return ipc.PlaceResult{Window: uint32(win), Rect: rect}, nil
}

// placementArea picks the work area for a direct placement. A monitor
// index of -1 means the monitor holding the window.
func (d *Daemon) placementArea(displays []platform.Display, monitor int, win platform.WindowID) (grid.Rect, error) {
	if monitor >= 0 {
		if monitor >= len(displays) {
			return grid.Rect{}, fmt.Errorf("monitor %d out of range (%d monitors)", monitor, len(displays))
		}
		return displays[monitor].Usable, nil
	}

	bounds, err := d.backend.WindowBounds(win)
	if err != nil {
		return grid.Rect{}, fmt.Errorf("window geometry: %w", err)
	}
	mc, err := session.NewMonitorContext(sessionMonitors(displays), bounds)
	if err != nil {
		return grid.Rect{}, err
	}
	return mc.Active().WorkArea, nil
}

func sessionMonitors(displays []platform.Display) []session.Monitor {
	monitors := make([]session.Monitor, 0, len(displays))
	for _, disp := range displays {
		monitors = append(monitors, session.Monitor{
			Name:     disp.Name,
			WorkArea: disp.Usable,
			Primary:  disp.Primary,
		})
	}
	return monitors
}

func overlayColors(cfg *config.Config) overlay.Colors {
	colors := overlay.DefaultColors()
	if v, err := config.ParseColor(cfg.Appearance.TileColor); err == nil {
		colors.Tile = v
	}
	if v, err := config.ParseColor(cfg.Appearance.HighlightColor); err == nil {
		colors.Highlight = v
	}
	if v, err := config.ParseColor(cfg.Appearance.BackgroundColor); err == nil {
		colors.Background = v
	}
	if v, err := config.ParseColor(cfg.Appearance.TextColor); err == nil {
		colors.Text = v
	}
	return colors
}
