package mines

import (
	"fmt"
	"strconv"
)

type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// Tile is one cell of the minefield. Surrounding is only meaningful for
// tiles that are not mines.
type Tile struct {
	Mine        bool
	Visible     bool
	Flagged     bool
	Surrounding int
}

// Tile implements [fmt.Stringer]
func (t Tile) String() string {
	switch {
	case t.Visible && t.Mine:
		return "!"
	case t.Visible && t.Surrounding == 0:
		return "."
	case t.Visible:
		return strconv.Itoa(t.Surrounding)
	case t.Flagged:
		return "*"
	default:
		return "#"
	}
}
