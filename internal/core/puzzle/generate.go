package puzzle

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/riordanpawley/codeflow/internal/domain"
)

// MinSize is the smallest grid edge the generator accepts
const MinSize = 3

// Cell addresses one grid position
type Cell struct {
	Row int
	Col int
}

// Generator builds puzzles from a random source
type Generator struct {
	rng    *rand.Rand
	logger *slog.Logger
	strict bool
}

// Option configures a Generator
type Option func(*Generator)

// WithRand uses r as the random source
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// WithSeed uses a deterministic PCG source seeded with seed
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger used to report invariant violations
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithStrict makes invariant violations panic instead of falling back
// to rotation 0. Tests run strict.
func WithStrict() Option {
	return func(g *Generator) {
		g.strict = true
	}
}

// NewGenerator creates a generator. Without options it draws from a
// randomly seeded source and logs to slog.Default().
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate builds a new puzzle with a fresh random generator.
// See Generator.Generate.
func Generate(n, lockedPercent int) (domain.Puzzle, error) {
	return NewGenerator().Generate(n, lockedPercent)
}

// Generate builds an n×n puzzle in which each tile is locked with probability
// lockedPercent/100.
//
// Parameters:
//   - n: grid edge, at least MinSize
//   - lockedPercent: 0..100
//
// Returns: a puzzle that is solvable by rotating every unlocked tile to its
// correct rotation, or ErrInvalidPuzzle for out-of-range parameters.
func (g *Generator) Generate(n, lockedPercent int) (domain.Puzzle, error) {
	if n < MinSize {
		return domain.Puzzle{}, fmt.Errorf("%w: size %d is below %d", domain.ErrInvalidPuzzle, n, MinSize)
	}
	if lockedPercent < 0 || lockedPercent > 100 {
		return domain.Puzzle{}, fmt.Errorf("%w: locked percent %d outside 0..100", domain.ErrInvalidPuzzle, lockedPercent)
	}

	path := SnakePath(n)
	grid := make(domain.Grid, n)
	for r := range grid {
		grid[r] = make([]domain.Tile, n)
	}

	for i, cell := range path {
		var conns []domain.Direction
		if i > 0 {
			conns = append(conns, directionTo(cell, path[i-1]))
		}
		if i < len(path)-1 {
			conns = append(conns, directionTo(cell, path[i+1]))
		}

		tileType := Classify(conns)
		correct, ok := RotationFor(tileType, conns)
		if !ok {
			g.violation(cell, tileType, conns)
		}

		tile := domain.Tile{
			Type:    tileType,
			Correct: correct,
			Locked:  g.rng.Float64()*100 < float64(lockedPercent),
		}
		if tile.Locked {
			tile.Rotation = correct
		} else {
			tile.Rotation = (correct + (g.rng.IntN(3)+1)*90) % 360
		}

		switch i {
		case 0:
			tile.Special = domain.SpecialStart
		case len(path) - 1:
			tile.Special = domain.SpecialEnd
		}

		grid[cell.Row][cell.Col] = tile
	}

	return domain.Puzzle{N: n, LockedPercent: lockedPercent, Grid: grid}, nil
}

func (g *Generator) violation(cell Cell, t domain.TileType, conns []domain.Direction) {
	if g.strict {
		panic(fmt.Sprintf("puzzle: no rotation of %s tile matches %v at (%d,%d)", t, conns, cell.Row, cell.Col))
	}
	g.logger.Error("no rotation matches path segment, using 0",
		"type", t, "connections", conns, "row", cell.Row, "col", cell.Col)
}

// SnakePath returns the boustrophedon path over an n×n grid: row 0 left to
// right, row 1 right to left, and so on. It visits every cell exactly once.
func SnakePath(n int) []Cell {
	cells := make([]Cell, 0, n*n)
	for r := 0; r < n; r++ {
		if r%2 == 0 {
			for c := 0; c < n; c++ {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		} else {
			for c := n - 1; c >= 0; c-- {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// directionTo returns the edge of from that faces the adjacent cell to
func directionTo(from, to Cell) domain.Direction {
	for _, d := range domain.Directions {
		dr, dc := d.Delta()
		if from.Row+dr == to.Row && from.Col+dc == to.Col {
			return d
		}
	}
	panic(fmt.Sprintf("puzzle: cells (%d,%d) and (%d,%d) are not adjacent", from.Row, from.Col, to.Row, to.Col))
}
