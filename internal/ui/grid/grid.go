// Package grid renders puzzle grids with box-drawing pipes.
package grid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/core/puzzle"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/navigation"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// CellWidth is the rendered width of one tile
const CellWidth = 3

func mask(dirs ...domain.Direction) int {
	m := 0
	for _, d := range dirs {
		m |= 1 << d
	}
	return m
}

var glyphs = map[int]string{
	mask(domain.Up, domain.Down):    "│",
	mask(domain.Left, domain.Right): "─",
	mask(domain.Up, domain.Right):   "└",
	mask(domain.Right, domain.Down): "┌",
	mask(domain.Down, domain.Left):  "┐",
	mask(domain.Left, domain.Up):    "┘",
	mask(domain.Up):                 "╵",
	mask(domain.Right):              "╶",
	mask(domain.Down):               "╷",
	mask(domain.Left):               "╴",
}

// Glyph returns the pipe character for a tile at its current rotation
func Glyph(t domain.Tile) string {
	if g, ok := glyphs[mask(puzzle.CurrentConnections(t)...)]; ok {
		return g
	}
	return "?"
}

// Cell returns the three-column text of a tile. Horizontal connections
// extend into the padding so neighbouring pipes join up.
func Cell(t domain.Tile) string {
	left, right := " ", " "
	if puzzle.Connects(t, domain.Left) {
		left = "─"
	}
	if puzzle.Connects(t, domain.Right) {
		right = "─"
	}
	return left + Glyph(t) + right
}

// Plain renders the grid without styling, one line per row
func Plain(p domain.Puzzle) string {
	var b strings.Builder
	for r, row := range p.Grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, t := range row {
			b.WriteString(Cell(t))
		}
	}
	return b.String()
}

// Renderer draws a styled puzzle with a cursor
type Renderer struct {
	styles *styles.Styles
}

// New creates a Renderer with the given styles
func New(s *styles.Styles) *Renderer {
	return &Renderer{styles: s}
}

// Render draws the puzzle framed, highlighting the cursor cell when focused.
// A solved puzzle is drawn in the solved colour with a green frame.
func (r *Renderer) Render(p domain.Puzzle, cur navigation.GridCursor, focused, solved bool) string {
	rows := make([]string, 0, len(p.Grid))
	for ri, row := range p.Grid {
		var b strings.Builder
		for ci, t := range row {
			style := r.tileStyle(t, solved)
			if focused && !solved && cur.At(ri, ci) {
				style = r.styles.TileCursor
			}
			b.WriteString(style.Render(Cell(t)))
		}
		rows = append(rows, b.String())
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if solved {
		return r.styles.GridSolved.Render(body)
	}
	return r.styles.GridFrame.Render(body)
}

func (r *Renderer) tileStyle(t domain.Tile, solved bool) lipgloss.Style {
	switch {
	case solved:
		return r.styles.TileSolved
	case t.Special == domain.SpecialStart:
		return r.styles.TileStart
	case t.Special == domain.SpecialEnd:
		return r.styles.TileEnd
	case t.Locked:
		return r.styles.TileLocked
	default:
		return r.styles.Tile
	}
}

// Legend explains the tile colours
func (r *Renderer) Legend() string {
	return strings.Join([]string{
		r.styles.TileStart.Render("start"),
		r.styles.TileEnd.Render("end"),
		r.styles.TileLocked.Render("locked"),
	}, "  ")
}
