package layout

import "context"

// Default grid spacing in pixels.
const (
	DefaultGridColumns = 6
	DefaultGridGapX    = 40.0
	DefaultGridGapY    = 60.0
)

// Grid places boxes row-major into fixed-size cells. It never fails and
// gives every box a distinct position, which makes it the fallback when the
// real engine cannot produce a layout.
type Grid struct {
	Columns int
	GapX    float64
	GapY    float64
}

// Layout places boxes in input order, Columns per row. Cells are as large as
// the largest box.
func (g Grid) Layout(_ context.Context, boxes []Box, _ []Edge) (map[string]Point, error) {
	cols := g.Columns
	if cols <= 0 {
		cols = DefaultGridColumns
	}
	gapX, gapY := g.GapX, g.GapY
	if gapX <= 0 {
		gapX = DefaultGridGapX
	}
	if gapY <= 0 {
		gapY = DefaultGridGapY
	}

	var cellW, cellH float64
	for _, b := range boxes {
		cellW = max(cellW, b.Width)
		cellH = max(cellH, b.Height)
	}

	pos := make(map[string]Point, len(boxes))
	for i, b := range boxes {
		col, row := i%cols, i/cols
		pos[b.ID] = Point{
			X: float64(col)*(cellW+gapX) + cellW/2,
			Y: float64(row)*(cellH+gapY) + cellH/2,
		}
	}
	return pos, nil
}
