package grid

import "testing"

func TestResolve(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1000, Height: 500}
	cfg := Config{Columns: 4, Rows: 2, Gap: 10}

	tests := []struct {
		name string
		span Span
		want Rect
	}{
		{
			name: "full grid fills work area minus outer gaps",
			span: Span{MinRow: 0, MaxRow: 1, MinCol: 0, MaxCol: 3},
			want: Rect{X: 10, Y: 10, Width: 980, Height: 480},
		},
		{
			name: "single top-left cell",
			span: Span{MinRow: 0, MaxRow: 0, MinCol: 0, MaxCol: 0},
			want: Rect{X: 10, Y: 10, Width: 237, Height: 235},
		},
		{
			name: "last column absorbs width remainder",
			span: Span{MinRow: 0, MaxRow: 0, MinCol: 3, MaxCol: 3},
			want: Rect{X: 751, Y: 10, Width: 239, Height: 235},
		},
		{
			name: "two cells wide includes internal gap",
			span: Span{MinRow: 0, MaxRow: 0, MinCol: 0, MaxCol: 1},
			want: Rect{X: 10, Y: 10, Width: 484, Height: 235},
		},
		{
			name: "bottom row spans gap-free height split",
			span: Span{MinRow: 1, MaxRow: 1, MinCol: 0, MaxCol: 3},
			want: Rect{X: 10, Y: 255, Width: 980, Height: 235},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.span, work, cfg)
			if err != nil {
				t.Fatalf("Resolve(%+v) error: %v", tt.span, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%+v) = %+v, want %+v", tt.span, got, tt.want)
			}
		})
	}
}

// Column widths plus the gaps between and around them reconstruct the full
// work area width exactly.
func TestResolveTilesExactly(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1000, Height: 500}
	cfg := Config{Columns: 4, Rows: 2, Gap: 10}

	total := cfg.Gap * (cfg.Columns + 1)
	for col := 0; col < cfg.Columns; col++ {
		r, err := CellRect(Cell{Row: 0, Col: col}, work, cfg)
		if err != nil {
			t.Fatalf("CellRect col %d: %v", col, err)
		}
		total += r.Width
	}
	if total != work.Width {
		t.Errorf("columns + gaps = %d, want %d", total, work.Width)
	}

	total = cfg.Gap * (cfg.Rows + 1)
	for row := 0; row < cfg.Rows; row++ {
		r, err := CellRect(Cell{Row: row, Col: 0}, work, cfg)
		if err != nil {
			t.Fatalf("CellRect row %d: %v", row, err)
		}
		total += r.Height
	}
	if total != work.Height {
		t.Errorf("rows + gaps = %d, want %d", total, work.Height)
	}
}

func TestResolveOffsetWorkArea(t *testing.T) {
	// A monitor to the right of a 1920-wide primary, with a 30px panel strut.
	work := Rect{X: 1920, Y: 30, Width: 1280, Height: 994}
	cfg := Config{Columns: 2, Rows: 2, Gap: 8}

	got, err := Resolve(Span{MinRow: 0, MaxRow: 0, MinCol: 0, MaxCol: 0}, work, cfg)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := Rect{X: 1928, Y: 38, Width: 628, Height: 485}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}
}

func TestResolveInsufficientSpace(t *testing.T) {
	tests := []struct {
		name string
		work Rect
		cfg  Config
	}{
		{"gap larger than work area", Rect{Width: 100, Height: 100}, Config{Columns: 2, Rows: 2, Gap: 40}},
		{"zero width work area", Rect{Width: 0, Height: 500}, Config{Columns: 4, Rows: 2, Gap: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(Span{}, tt.work, tt.cfg); err == nil {
				t.Error("Resolve succeeded, want insufficient space error")
			}
			if err := Validate(tt.work, tt.cfg); err == nil {
				t.Error("Validate succeeded, want insufficient space error")
			}
		})
	}
}

func TestCellRects(t *testing.T) {
	work := Rect{X: 0, Y: 0, Width: 1000, Height: 500}
	cfg := Config{Columns: 4, Rows: 2, Gap: 10}

	rects, err := CellRects(work, cfg)
	if err != nil {
		t.Fatalf("CellRects error: %v", err)
	}
	if len(rects) != 8 {
		t.Fatalf("len(rects) = %d, want 8", len(rects))
	}
	// Row-major: index 3 is the top-right cell.
	if rects[3].X != 751 || rects[3].Width != 239 {
		t.Errorf("rects[3] = %+v, want X=751 Width=239", rects[3])
	}
}
