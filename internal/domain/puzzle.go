package domain

import "fmt"

// Direction is one of the four cell edges a pipe can touch.
// The declaration order (up, right, down, left) is the clockwise order used
// for rotation arithmetic.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists all directions in clockwise order starting at Up
var Directions = []Direction{Up, Right, Down, Left}

var directionNames = [...]string{"up", "right", "down", "left"}

// String returns the lower-case direction name
func (d Direction) String() string {
	if d < Up || d > Left {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if d < Up || d > Left {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if string(text) == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", string(text))
}

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Rotate turns the direction clockwise by the given angle in degrees.
// Angles must be multiples of 90; negative angles rotate counter-clockwise.
func (d Direction) Rotate(degrees int) Direction {
	steps := (int(d) + degrees/90) % 4
	if steps < 0 {
		steps += 4
	}
	return Direction(steps)
}

// Delta returns the row and column offset of the neighbour in this direction
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	}
	return 0, 0
}

// Horizontal reports whether the direction is left or right
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// TileType is the shape of pipe segment on a tile
type TileType string

const (
	TileStraight TileType = "straight" // two opposite connections
	TileCurve    TileType = "curve"    // two perpendicular connections
	TileEnd      TileType = "end"      // exactly one connection
)

// Special marks the two endpoints of the puzzle path
type Special string

const (
	SpecialNone  Special = ""
	SpecialStart Special = "start"
	SpecialEnd   Special = "end"
)

// Rotations lists the legal tile rotations in degrees
var Rotations = []int{0, 90, 180, 270}

// Tile is one cell of a puzzle grid
type Tile struct {
	Type     TileType `json:"type"`
	Rotation int      `json:"rotation"`
	// Correct is the rotation at which the tile matches its path segment.
	// It is fixed at generation time.
	Correct int     `json:"correct"`
	Locked  bool    `json:"locked"`
	Special Special `json:"special,omitempty"`
}

// Solved reports whether the tile currently sits at its correct rotation
func (t Tile) Solved() bool {
	return t.Rotation == t.Correct
}

// Grid is a square of tiles indexed [row][col]
type Grid [][]Tile

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]Tile(nil), row...)
	}
	return out
}

// InBounds reports whether (r, c) addresses a cell of the grid
func (g Grid) InBounds(r, c int) bool {
	return r >= 0 && r < len(g) && c >= 0 && c < len(g[r])
}

// Puzzle is a generated rotation puzzle
type Puzzle struct {
	N             int  `json:"N"`
	LockedPercent int  `json:"lockedPercent"`
	Grid          Grid `json:"grid"`
}

// Clone returns a deep copy of the puzzle
func (p Puzzle) Clone() Puzzle {
	p.Grid = p.Grid.Clone()
	return p
}

// WithGrid returns a copy of the puzzle metadata carrying the given grid
func (p Puzzle) WithGrid(g Grid) Puzzle {
	p.Grid = g
	return p
}

// LockedCount returns the number of locked tiles
func (p Puzzle) LockedCount() int {
	n := 0
	for _, row := range p.Grid {
		for _, t := range row {
			if t.Locked {
				n++
			}
		}
	}
	return n
}
