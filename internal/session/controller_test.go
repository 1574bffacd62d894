package session

import (
	"testing"

	"github.com/1broseidon/keytile/internal/grid"
	"github.com/1broseidon/keytile/internal/platform"
)

type fakePlacer struct {
	placed    []grid.Rect
	placedWin []platform.WindowID
	missing   map[platform.WindowID]bool
}

func (f *fakePlacer) PlaceWindow(id platform.WindowID, rect grid.Rect) error {
	f.placed = append(f.placed, rect)
	f.placedWin = append(f.placedWin, id)
	return nil
}

func (f *fakePlacer) WindowExists(id platform.WindowID) (bool, error) {
	return !f.missing[id], nil
}

type fakeRenderer struct {
	renders []Snapshot
	hidden  int
}

func (f *fakeRenderer) Render(snap Snapshot) error {
	f.renders = append(f.renders, snap)
	return nil
}

func (f *fakeRenderer) Hide() {
	f.hidden++
}

func testMonitors() []Monitor {
	return []Monitor{
		{Name: "eDP-1", WorkArea: grid.Rect{X: 0, Y: 0, Width: 1000, Height: 500}, Primary: true},
		{Name: "HDMI-1", WorkArea: grid.Rect{X: 1000, Y: 0, Width: 2000, Height: 1000}},
	}
}

func newTestController() (*Controller, *fakePlacer, *fakeRenderer) {
	placer := &fakePlacer{missing: map[platform.WindowID]bool{}}
	renderer := &fakeRenderer{}
	cfg := grid.Config{Columns: 4, Rows: 2, Gap: 10}
	return NewController(cfg, placer, renderer), placer, renderer
}

func TestControllerCommitPlacesOnce(t *testing.T) {
	c, placer, renderer := newTestController()
	target := Target{Window: 0x42, Bounds: grid.Rect{X: 100, Y: 100, Width: 400, Height: 300}}

	if err := c.Invoke(target, testMonitors()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	// Q then S spans the left half of the grid.
	if err := c.HandleKey('Q'); err != nil {
		t.Fatalf("HandleKey Q: %v", err)
	}
	if err := c.HandleKey('S'); err != nil {
		t.Fatalf("HandleKey S: %v", err)
	}

	if len(placer.placed) != 1 {
		t.Fatalf("placements = %d, want exactly 1", len(placer.placed))
	}
	if placer.placedWin[0] != 0x42 {
		t.Errorf("placed window = 0x%x, want 0x42", placer.placedWin[0])
	}
	want := grid.Rect{X: 10, Y: 10, Width: 484, Height: 480}
	if placer.placed[0] != want {
		t.Errorf("placed rect = %+v, want %+v", placer.placed[0], want)
	}
	if c.Active() {
		t.Error("session still active after commit")
	}
	if renderer.hidden == 0 {
		t.Error("overlay not hidden after commit")
	}
}

func TestControllerInvokeWhileActiveIgnored(t *testing.T) {
	c, placer, _ := newTestController()
	target := Target{Window: 1, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}

	if err := c.Invoke(target, testMonitors()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if err := c.HandleKey('Q'); err != nil {
		t.Fatalf("HandleKey: %v", err)
	}

	other := Target{Window: 2, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
	if err := c.Invoke(other, testMonitors()); err != nil {
		t.Fatalf("second Invoke: %v", err)
	}

	// The original session is untouched and commits against window 1.
	if err := c.HandleKey('Q'); err != nil {
		t.Fatalf("HandleKey: %v", err)
	}
	if len(placer.placedWin) != 1 || placer.placedWin[0] != 1 {
		t.Fatalf("placed windows = %v, want [1]", placer.placedWin)
	}
}

func TestControllerUnmappedKeyIgnored(t *testing.T) {
	c, placer, _ := newTestController()
	target := Target{Window: 1, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}

	if err := c.Invoke(target, testMonitors()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	for _, key := range []rune{'P', '9', ';', 'Z'} { // Z is row 2, outside rows=2
		if err := c.HandleKey(key); err != nil {
			t.Fatalf("HandleKey %q: %v", key, err)
		}
	}
	if !c.Active() {
		t.Fatal("session ended on unmapped keys")
	}
	if len(placer.placed) != 0 {
		t.Errorf("placements = %d, want 0", len(placer.placed))
	}
}

func TestControllerCancelSuppressesPlacement(t *testing.T) {
	c, placer, renderer := newTestController()
	target := Target{Window: 1, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}

	if err := c.Invoke(target, testMonitors()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if err := c.HandleKey('Q'); err != nil {
		t.Fatalf("HandleKey: %v", err)
	}
	c.Cancel()

	if c.Active() {
		t.Error("session active after cancel")
	}
	if len(placer.placed) != 0 {
		t.Errorf("placements = %d, want 0", len(placer.placed))
	}
	if renderer.hidden == 0 {
		t.Error("overlay not hidden after cancel")
	}
}

// The anchor chosen before a monitor cycle survives it, and the commit
// resolves against the monitor active at commit time.
func TestControllerAnchorSurvivesCycle(t *testing.T) {
	c, placer, _ := newTestController()
	target := Target{Window: 1, Bounds: grid.Rect{X: 100, Y: 100, Width: 400, Height: 300}}

	if err := c.Invoke(target, testMonitors()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if err := c.HandleKey('Q'); err != nil {
		t.Fatalf("HandleKey: %v", err)
	}
	if err := c.CycleMonitor(); err != nil {
		t.Fatalf("CycleMonitor: %v", err)
	}

	snap := c.Snapshot()
	if !snap.HasAnchor || snap.Anchor != (grid.Cell{Row: 0, Col: 0}) {
		t.Fatalf("anchor after cycle = %+v (has=%v), want {0 0}", snap.Anchor, snap.HasAnchor)
	}
	if snap.MonitorIndex != 1 {
		t.Fatalf("monitor index after cycle = %d, want 1", snap.MonitorIndex)
	}

	if err := c.HandleKey('Q'); err != nil {
		t.Fatalf("HandleKey: %v", err)
	}
	if len(placer.placed) != 1 {
		t.Fatalf("placements = %d, want 1", len(placer.placed))
	}
	// Single top-left cell on the second monitor's work area.
	want := grid.Rect{X: 1010, Y: 10, Width: 487, Height: 485}
	if placer.placed[0] != want {
		t.Errorf("placed rect = %+v, want %+v", placer.placed[0], want)
	}
}

func TestControllerCycleWrapsToStart(t *testing.T) {
	c, _, _ := newTestController()
	target := Target{Window: 1, Bounds: grid.Rect{X: 100, Y: 100, Width: 400, Height: 300}}

	if err := c.Invoke(target, testMonitors()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	start := c.Snapshot().MonitorIndex
	for i := 0; i < len(testMonitors()); i++ {
		if err := c.CycleMonitor(); err != nil {
			t.Fatalf("CycleMonitor: %v", err)
		}
	}
	if got := c.Snapshot().MonitorIndex; got != start {
		t.Errorf("monitor index after full cycle = %d, want %d", got, start)
	}
}

func TestControllerTargetLost(t *testing.T) {
	t.Run("notified close cancels session", func(t *testing.T) {
		c, placer, _ := newTestController()
		target := Target{Window: 7, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
		if err := c.Invoke(target, testMonitors()); err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		c.NotifyWindowClosed(7)
		if c.Active() {
			t.Error("session active after target closed")
		}
		if len(placer.placed) != 0 {
			t.Errorf("placements = %d, want 0", len(placer.placed))
		}
	})

	t.Run("unrelated window close keeps session", func(t *testing.T) {
		c, _, _ := newTestController()
		target := Target{Window: 7, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
		if err := c.Invoke(target, testMonitors()); err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		c.NotifyWindowClosed(8)
		if !c.Active() {
			t.Error("session cancelled by unrelated window close")
		}
	})

	t.Run("gone at commit suppresses placement", func(t *testing.T) {
		c, placer, _ := newTestController()
		target := Target{Window: 7, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
		if err := c.Invoke(target, testMonitors()); err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		if err := c.HandleKey('Q'); err != nil {
			t.Fatalf("HandleKey: %v", err)
		}
		placer.missing[7] = true
		if err := c.HandleKey('F'); err != nil {
			t.Fatalf("HandleKey: %v", err)
		}
		if len(placer.placed) != 0 {
			t.Errorf("placements = %d, want 0", len(placer.placed))
		}
		if c.Active() {
			t.Error("session active after lost target")
		}
	})
}

func TestControllerRefusesDegenerateGrid(t *testing.T) {
	placer := &fakePlacer{missing: map[platform.WindowID]bool{}}
	c := NewController(grid.Config{Columns: 4, Rows: 2, Gap: 200}, placer, &fakeRenderer{})
	target := Target{Window: 1, Bounds: grid.Rect{X: 0, Y: 0, Width: 100, Height: 100}}

	if err := c.Invoke(target, testMonitors()); err == nil {
		t.Fatal("Invoke succeeded with degenerate cell dimensions")
	}
	if c.Active() {
		t.Error("session opened despite degenerate grid")
	}
}
