// Package puzzle implements the pipe-rotation puzzle engine.
//
// A puzzle is an N×N grid of pipe tiles. Generation lays a single snake-shaped
// (boustrophedon) path through every cell, so the puzzle is solvable by
// construction without any search:
//
//	row 0: → → → →
//	row 1: ← ← ← ←
//	row 2: → → → →
//
// Each tile remembers the rotation that makes it fit its path segment. Locked
// tiles start at that rotation and can never be turned; every other tile
// starts mis-rotated. All functions in this package are pure: grids are
// copied on write and never mutated in place.
package puzzle

import (
	"slices"

	"github.com/riordanpawley/codeflow/internal/domain"
)

// DefaultConnections returns the edges a tile type touches at rotation 0
func DefaultConnections(t domain.TileType) []domain.Direction {
	switch t {
	case domain.TileStraight:
		return []domain.Direction{domain.Right, domain.Left}
	case domain.TileCurve:
		return []domain.Direction{domain.Up, domain.Right}
	case domain.TileEnd:
		return []domain.Direction{domain.Right}
	default:
		return nil
	}
}

// CurrentConnections returns the edges a tile touches at its current rotation
func CurrentConnections(tile domain.Tile) []domain.Direction {
	return rotateAll(DefaultConnections(tile.Type), tile.Rotation)
}

// Connects reports whether the tile currently touches edge d
func Connects(tile domain.Tile, d domain.Direction) bool {
	return slices.Contains(CurrentConnections(tile), d)
}

// RotationFor finds the rotation that turns a tile type's default connections
// into the target connection set. Order of target does not matter.
//
// Returns: the rotation in degrees and true, or 0 and false when no rotation
// of the tile type produces the target set.
func RotationFor(t domain.TileType, target []domain.Direction) (int, bool) {
	want := sortedCopy(target)
	defaults := DefaultConnections(t)
	for _, rot := range domain.Rotations {
		if slices.Equal(sortedCopy(rotateAll(defaults, rot)), want) {
			return rot, true
		}
	}
	return 0, false
}

// Classify picks the tile type for a set of path connections.
// One connection is an end tile; two connections are a curve if they turn a
// corner and a straight otherwise.
func Classify(conns []domain.Direction) domain.TileType {
	if len(conns) == 1 {
		return domain.TileEnd
	}
	hasHorizontal, hasVertical := false, false
	for _, d := range conns {
		if d.Horizontal() {
			hasHorizontal = true
		} else {
			hasVertical = true
		}
	}
	if hasHorizontal && hasVertical {
		return domain.TileCurve
	}
	return domain.TileStraight
}

func rotateAll(dirs []domain.Direction, degrees int) []domain.Direction {
	out := make([]domain.Direction, len(dirs))
	for i, d := range dirs {
		out[i] = d.Rotate(degrees)
	}
	return out
}

func sortedCopy(dirs []domain.Direction) []domain.Direction {
	out := slices.Clone(dirs)
	slices.Sort(out)
	return out
}
