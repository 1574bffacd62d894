package grid

// Rect represents a screen-space rectangle
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Cell identifies one grid position by row and column (0-based)
type Cell struct {
	Row int
	Col int
}

// Span is an inclusive rectangular range of cells
type Span struct {
	MinRow int
	MaxRow int
	MinCol int
	MaxCol int
}

// NewSpan builds the bounding span of two cells regardless of order
func NewSpan(a, b Cell) Span {
	return Span{
		MinRow: min(a.Row, b.Row),
		MaxRow: max(a.Row, b.Row),
		MinCol: min(a.Col, b.Col),
		MaxCol: max(a.Col, b.Col),
	}
}

// Contains reports whether the span includes the given cell
func (s Span) Contains(c Cell) bool {
	return c.Row >= s.MinRow && c.Row <= s.MaxRow && c.Col >= s.MinCol && c.Col <= s.MaxCol
}

// Config holds the validated grid dimensions and gap size
type Config struct {
	Columns int
	Rows    int
	Gap     int
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
