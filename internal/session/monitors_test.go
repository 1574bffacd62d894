package session

import (
	"testing"

	"github.com/1broseidon/keytile/internal/grid"
)

func twoMonitors() []Monitor {
	return []Monitor{
		{Name: "eDP-1", WorkArea: grid.Rect{X: 0, Y: 30, Width: 1920, Height: 1050}, Primary: true},
		{Name: "HDMI-1", WorkArea: grid.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
	}
}

func TestNewMonitorContextSeeding(t *testing.T) {
	tests := []struct {
		name   string
		target grid.Rect
		want   int
	}{
		{"center on first monitor", grid.Rect{X: 100, Y: 100, Width: 800, Height: 600}, 0},
		{"center on second monitor", grid.Rect{X: 2000, Y: 200, Width: 800, Height: 600}, 1},
		{"straddling, center decides", grid.Rect{X: 1600, Y: 100, Width: 800, Height: 600}, 1},
		{"off-screen falls back to greatest overlap", grid.Rect{X: -700, Y: 100, Width: 800, Height: 600}, 0},
		{"fully off-screen falls back to first", grid.Rect{X: -5000, Y: -5000, Width: 100, Height: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc, err := NewMonitorContext(twoMonitors(), tt.target)
			if err != nil {
				t.Fatalf("NewMonitorContext: %v", err)
			}
			if mc.ActiveIndex() != tt.want {
				t.Errorf("seeded index = %d, want %d", mc.ActiveIndex(), tt.want)
			}
		})
	}
}

func TestNewMonitorContextEmpty(t *testing.T) {
	if _, err := NewMonitorContext(nil, grid.Rect{}); err == nil {
		t.Error("NewMonitorContext with no monitors succeeded")
	}
}

// Cycling through all monitors returns to the starting monitor.
func TestCycleNextWraps(t *testing.T) {
	monitors := append(twoMonitors(), Monitor{
		Name:     "DP-2",
		WorkArea: grid.Rect{X: 4480, Y: 0, Width: 1920, Height: 1080},
	})
	mc, err := NewMonitorContext(monitors, grid.Rect{X: 10, Y: 40, Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("NewMonitorContext: %v", err)
	}

	start := mc.ActiveIndex()
	seen := map[int]bool{start: true}
	for i := 0; i < len(monitors)-1; i++ {
		mc.CycleNext()
		seen[mc.ActiveIndex()] = true
	}
	if len(seen) != len(monitors) {
		t.Errorf("cycle visited %d monitors, want %d", len(seen), len(monitors))
	}
	mc.CycleNext()
	if mc.ActiveIndex() != start {
		t.Errorf("after full cycle index = %d, want %d", mc.ActiveIndex(), start)
	}
}

func TestCycleNextSingleMonitor(t *testing.T) {
	mc, err := NewMonitorContext(twoMonitors()[:1], grid.Rect{X: 10, Y: 40, Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("NewMonitorContext: %v", err)
	}
	mc.CycleNext()
	if mc.ActiveIndex() != 0 {
		t.Errorf("single monitor cycle moved to index %d", mc.ActiveIndex())
	}
}
