package puzzle

import "github.com/riordanpawley/codeflow/internal/domain"

// Rotate turns the tile at (r, c) a quarter turn clockwise.
//
// Locked tiles and out-of-bounds coordinates are rejected: the input grid is
// returned unchanged with false. Otherwise a new grid is returned that shares
// every row except row r; the input is never mutated.
func Rotate(g domain.Grid, r, c int) (domain.Grid, bool) {
	if !g.InBounds(r, c) || g[r][c].Locked {
		return g, false
	}

	out := make(domain.Grid, len(g))
	copy(out, g)

	row := make([]domain.Tile, len(g[r]))
	copy(row, g[r])
	row[c].Rotation = (row[c].Rotation + 90) % 360
	out[r] = row

	return out, true
}

// RotatePuzzle applies Rotate to a puzzle's grid
func RotatePuzzle(p domain.Puzzle, r, c int) (domain.Puzzle, bool) {
	g, ok := Rotate(p.Grid, r, c)
	if !ok {
		return p, false
	}
	return p.WithGrid(g), true
}

// IsSolved reports whether the realised connections form the puzzle path.
//
// Every cell is checked locally: endpoints (start/end) need exactly one
// connection and all other cells two, and every connection must lead to an
// in-bounds neighbour that connects back.
func IsSolved(p domain.Puzzle) bool {
	g := p.Grid
	if len(g) == 0 || len(g) != p.N {
		return false
	}

	for r, row := range g {
		if len(row) != p.N {
			return false
		}
		for c, tile := range row {
			conns := CurrentConnections(tile)

			required := 2
			if tile.Special != domain.SpecialNone {
				required = 1
			}
			if len(conns) != required {
				return false
			}

			for _, d := range conns {
				dr, dc := d.Delta()
				nr, nc := r+dr, c+dc
				if !g.InBounds(nr, nc) {
					return false
				}
				if !Connects(g[nr][nc], d.Opposite()) {
					return false
				}
			}
		}
	}

	return true
}

// Solve returns a copy of the puzzle with every tile at its correct rotation
func Solve(p domain.Puzzle) domain.Puzzle {
	out := p.Clone()
	for r := range out.Grid {
		for c := range out.Grid[r] {
			out.Grid[r][c].Rotation = out.Grid[r][c].Correct
		}
	}
	return out
}

// Progress returns how many tiles currently sit at their correct rotation
func Progress(p domain.Puzzle) (correct, total int) {
	for _, row := range p.Grid {
		for _, t := range row {
			total++
			if t.Solved() {
				correct++
			}
		}
	}
	return correct, total
}
