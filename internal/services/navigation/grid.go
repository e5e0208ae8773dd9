package navigation

// GridCursor selects one cell of an N×N puzzle grid
type GridCursor struct {
	Row int
	Col int
	N   int
}

// NewGridCursor creates a cursor at the top-left cell of an n×n grid
func NewGridCursor(n int) GridCursor {
	return GridCursor{N: n}
}

// Move shifts the cursor, stopping at the grid edges
func (g *GridCursor) Move(dr, dc int) {
	if g.N <= 0 {
		return
	}
	g.Row = clamp(g.Row+dr, 0, g.N-1)
	g.Col = clamp(g.Col+dc, 0, g.N-1)
}

// Home moves to the first cell of the current row
func (g *GridCursor) Home() {
	g.Col = 0
}

// End moves to the last cell of the current row
func (g *GridCursor) End() {
	g.Col = max(g.N-1, 0)
}

// At reports whether the cursor sits on (r, c)
func (g GridCursor) At(r, c int) bool {
	return g.Row == r && g.Col == c
}
