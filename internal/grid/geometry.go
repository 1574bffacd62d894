package grid

import "fmt"

// metrics holds per-axis cell sizes for a work area partition.
type metrics struct {
	cellWidth  int
	cellHeight int
	// Remainder pixels from integer division; absorbed by the last
	// column/row so the grid exactly tiles the work area.
	remWidth  int
	remHeight int
}

func computeMetrics(work Rect, cfg Config) (metrics, error) {
	usableW := work.Width - cfg.Gap*(cfg.Columns+1)
	usableH := work.Height - cfg.Gap*(cfg.Rows+1)

	m := metrics{
		cellWidth:  usableW / cfg.Columns,
		cellHeight: usableH / cfg.Rows,
		remWidth:   usableW % cfg.Columns,
		remHeight:  usableH % cfg.Rows,
	}

	if m.cellWidth <= 0 || m.cellHeight <= 0 {
		return metrics{}, fmt.Errorf(
			"insufficient space for grid: work=%dx%d rows=%d cols=%d gap=%d (cell=%dx%d)",
			work.Width, work.Height, cfg.Rows, cfg.Columns, cfg.Gap, m.cellWidth, m.cellHeight,
		)
	}
	return m, nil
}

// Validate checks that the configured grid produces positive cell
// dimensions on the given work area.
func Validate(work Rect, cfg Config) error {
	_, err := computeMetrics(work, cfg)
	return err
}

// CellRect computes the screen rectangle of a single cell within the work
// area. The last column and row absorb integer-division remainders.
func CellRect(cell Cell, work Rect, cfg Config) (Rect, error) {
	m, err := computeMetrics(work, cfg)
	if err != nil {
		return Rect{}, err
	}
	return cellRect(cell, work, cfg, m), nil
}

func cellRect(cell Cell, work Rect, cfg Config, m metrics) Rect {
	r := Rect{
		X:      work.X + cfg.Gap + cell.Col*(m.cellWidth+cfg.Gap),
		Y:      work.Y + cfg.Gap + cell.Row*(m.cellHeight+cfg.Gap),
		Width:  m.cellWidth,
		Height: m.cellHeight,
	}
	if cell.Col == cfg.Columns-1 {
		r.Width += m.remWidth
	}
	if cell.Row == cfg.Rows-1 {
		r.Height += m.remHeight
	}
	return r
}

// Resolve computes the target rectangle for a committed cell span. The
// result spans from the top-left of the min cell to the bottom-right of the
// max cell, so internal gaps between selected cells stay inside the
// rectangle while the gaps separating it from unselected neighbors do not.
func Resolve(span Span, work Rect, cfg Config) (Rect, error) {
	m, err := computeMetrics(work, cfg)
	if err != nil {
		return Rect{}, err
	}

	first := cellRect(Cell{Row: span.MinRow, Col: span.MinCol}, work, cfg, m)
	last := cellRect(Cell{Row: span.MaxRow, Col: span.MaxCol}, work, cfg, m)

	return Rect{
		X:      first.X,
		Y:      first.Y,
		Width:  last.X + last.Width - first.X,
		Height: last.Y + last.Height - first.Y,
	}, nil
}

// CellRects returns the rectangles of every cell in row-major order, for
// overlay rendering.
func CellRects(work Rect, cfg Config) ([]Rect, error) {
	m, err := computeMetrics(work, cfg)
	if err != nil {
		return nil, err
	}
	rects := make([]Rect, 0, cfg.Rows*cfg.Columns)
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Columns; col++ {
			rects = append(rects, cellRect(Cell{Row: row, Col: col}, work, cfg, m))
		}
	}
	return rects, nil
}
