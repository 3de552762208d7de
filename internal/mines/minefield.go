package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Minefield owns a row-major grid of tiles along with the cursor and the
// flag counter. Every tile access goes through [Minefield.index].
type Minefield struct {
	Width, Height, MineCount int
	PlacedFlags              int
	Cursor                   Point

	populated bool
	tiles     []Tile
}

func NewMinefield(width, height, mineCount int) (*Minefield, error) {
	params := GameParams{Width: width, Height: height, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	m := &Minefield{
		Width:     width,
		Height:    height,
		MineCount: mineCount,
		Cursor:    Point{X: width / 2, Y: height / 2},
		tiles:     make([]Tile, width*height),
	}
	return m, nil
}

func (m *Minefield) Params() GameParams {
	return GameParams{Width: m.Width, Height: m.Height, MineCount: m.MineCount}
}

func (m *Minefield) InBounds(x, y int) bool {
	return 0 <= x && x < m.Width && 0 <= y && y < m.Height
}

// panics [AssertionError]
func (m *Minefield) index(x, y int) int {
	if !m.InBounds(x, y) {
		panic(AssertionError{fmt.Sprintf(
			"cell %d:%d is outside of %dx%d minefield", x, y, m.Width, m.Height,
		)})
	}
	return y*m.Width + x
}

func (m *Minefield) at(x, y int) *Tile {
	return &m.tiles[m.index(x, y)]
}

// Tile returns a copy of the tile at x, y.
//
// panics [AssertionError]
func (m *Minefield) Tile(x, y int) Tile {
	return *m.at(x, y)
}

func (m *Minefield) Populated() bool {
	return m.populated
}

// neighbors calls fn for every in-bounds cell within one step of x, y,
// not including x, y itself.
func (m *Minefield) neighbors(x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if nx, ny := x+dx, y+dy; m.InBounds(nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

func (m *Minefield) inSafeZone(x, y int) bool {
	return absDiff(m.Cursor.X, x) <= 1 && absDiff(m.Cursor.Y, y) <= 1
}

// panics [AssertionError]
func (m *Minefield) setMine(x, y int) {
	t := m.at(x, y)
	if t.Mine {
		panic(AssertionError{fmt.Sprintf("cell %d:%d is already mined", x, y)})
	}
	t.Mine = true
	m.neighbors(x, y, func(nx, ny int) {
		m.at(nx, ny).Surrounding++
	})
}

// Populate spreads MineCount mines uniformly at random, none of which is
// within one cell of the cursor.
func (m *Minefield) Populate(r *rand.Rand) error {
	if m.populated {
		return ErrPopulated
	}
	for placed := 0; placed < m.MineCount; {
		x, y := r.IntN(m.Width), r.IntN(m.Height)
		if m.inSafeZone(x, y) || m.at(x, y).Mine {
			continue
		}
		m.setMine(x, y)
		placed++
	}
	m.populated = true
	Log.WithFields(logrus.Fields{
		"params": m.Params().String(),
		"cursor": m.Cursor.String(),
	}).Debug("minefield populated")
	return nil
}

// PopulateAt places mines at exactly the given points. The layout is
// checked in full before anything is written.
func (m *Minefield) PopulateAt(points []Point) error {
	if m.populated {
		return ErrPopulated
	}
	if len(points) != m.MineCount {
		return fmt.Errorf("%w: want %d mines, got %d",
			ErrInvalidLayout, m.MineCount, len(points))
	}
	seen := make(map[Point]bool, len(points))
	for _, p := range points {
		switch {
		case !m.InBounds(p.X, p.Y):
			return fmt.Errorf("%w: mine %s is out of bounds", ErrInvalidLayout, p)
		case m.inSafeZone(p.X, p.Y):
			return fmt.Errorf("%w: mine %s is next to the cursor %s",
				ErrInvalidLayout, p, m.Cursor)
		case seen[p]:
			return fmt.Errorf("%w: mine %s is listed twice", ErrInvalidLayout, p)
		}
		seen[p] = true
	}
	for _, p := range points {
		m.setMine(p.X, p.Y)
	}
	m.populated = true
	return nil
}

// Reveal opens the tile at x, y and reports false if it is a mine. A
// flagged tile is left alone. Opening a tile with no mines around it
// floods outwards through every hidden, unflagged neighbor.
//
// panics [AssertionError]
func (m *Minefield) Reveal(x, y int) bool {
	t := m.at(x, y)
	if t.Flagged {
		return true
	}
	if t.Mine {
		return false
	}
	wasVisible := t.Visible
	t.Visible = true
	if wasVisible || t.Surrounding != 0 {
		return true
	}

	/*
	 * A tile is marked visible when it is pushed, so each cell enters
	 * the stack at most once. Zero tiles have no mined neighbors, hence
	 * the flood never touches a mine.
	 */
	todo := []Point{{X: x, Y: y}}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		m.neighbors(p.X, p.Y, func(nx, ny int) {
			n := m.at(nx, ny)
			if n.Visible || n.Flagged {
				return
			}
			n.Visible = true
			if n.Surrounding == 0 {
				todo = append(todo, Point{X: nx, Y: ny})
			}
		})
	}
	return true
}

func (m *Minefield) CountSurroundingMines(x, y int) (count int) {
	m.index(x, y)
	m.neighbors(x, y, func(nx, ny int) {
		if m.at(nx, ny).Mine {
			count++
		}
	})
	return
}

func (m *Minefield) CountSurroundingFlags(x, y int) (count int) {
	m.index(x, y)
	m.neighbors(x, y, func(nx, ny int) {
		if m.at(nx, ny).Flagged {
			count++
		}
	})
	return
}

// ToggleFlag flips the flag on a hidden tile and reports whether anything
// changed.
func (m *Minefield) ToggleFlag(x, y int) bool {
	t := m.at(x, y)
	if t.Visible {
		return false
	}
	t.Flagged = !t.Flagged
	if t.Flagged {
		m.PlacedFlags++
	} else {
		m.PlacedFlags--
	}
	return true
}

func (m *Minefield) HiddenCount() (hidden int) {
	for _, t := range m.tiles {
		if !t.Visible {
			hidden++
		}
	}
	return
}

// CheckVictory reports whether the only hidden tiles left are mines.
func (m *Minefield) CheckVictory() bool {
	return m.HiddenCount() == m.MineCount
}

func (m *Minefield) RevealMines() {
	for i := range m.tiles {
		if m.tiles[i].Mine {
			m.tiles[i].Visible = true
		}
	}
}

func (m *Minefield) RevealAll() {
	for i := range m.tiles {
		m.tiles[i].Visible = true
	}
}

// MinesLeft is the mine count minus the number of placed flags. It goes
// negative when the player over-flags.
func (m *Minefield) MinesLeft() int {
	return m.MineCount - m.PlacedFlags
}

func (m *Minefield) SetCursor(x, y int) error {
	if !m.InBounds(x, y) {
		return fmt.Errorf("%w: %d:%d", ErrOutOfBounds, x, y)
	}
	m.Cursor = Point{X: x, Y: y}
	return nil
}

// MoveCursor shifts the cursor, stopping at the edges of the grid.
func (m *Minefield) MoveCursor(dx, dy int) {
	m.Cursor.X = min(max(m.Cursor.X+dx, 0), m.Width-1)
	m.Cursor.Y = min(max(m.Cursor.Y+dy, 0), m.Height-1)
}

// Clone returns a deep copy that shares no tile storage with m.
func (m *Minefield) Clone() *Minefield {
	c := *m
	c.tiles = make([]Tile, len(m.tiles))
	copy(c.tiles, m.tiles)
	return &c
}

// Minefield implements [fmt.Stringer]
func (m *Minefield) String() string {
	var b strings.Builder
	for y := range m.Height {
		for x := range m.Width {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(m.tiles[y*m.Width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
