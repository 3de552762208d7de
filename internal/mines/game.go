package mines

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type GameState int8

const (
	Init GameState = iota
	Alive
	Victory
	Dead
)

func (s GameState) String() string {
	switch s {
	case Init:
		return "init"
	case Alive:
		return "alive"
	case Victory:
		return "victory"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("GameState(%d)", int8(s))
	}
}

// Over reports whether s is a terminal state.
func (s GameState) Over() bool {
	return s == Victory || s == Dead
}

type snapshot struct {
	state     GameState
	minefield *Minefield
}

// Game drives one minefield through Init, Alive and one of the terminal
// states, keeping a single snapshot for undo.
type Game struct {
	ID        uuid.UUID
	State     GameState
	Minefield *Minefield
	StartedAt time.Time
	EndedAt   time.Time

	undo   *snapshot
	layout []Point
	rnd    *rand.Rand
	now    func() time.Time
	log    *logrus.Entry
}

type Option func(*Game)

func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rnd = r }
}

// WithLayout makes the first reveal place mines at exactly these points
// instead of picking them at random.
func WithLayout(points ...Point) Option {
	return func(g *Game) { g.layout = points }
}

func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

func WithID(id uuid.UUID) Option {
	return func(g *Game) { g.ID = id }
}

func NewGame(params GameParams, opts ...Option) (*Game, error) {
	minefield, err := NewMinefield(params.Unpack())
	if err != nil {
		return nil, err
	}
	g := &Game{
		ID:        uuid.New(),
		State:     Init,
		Minefield: minefield,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		g.rnd = NewRand()
	}
	g.log = Log.WithField("game_id", g.ID.String())
	return g, nil
}

func (g *Game) checkPosition(x, y int) error {
	if !g.Minefield.InBounds(x, y) {
		return fmt.Errorf("%w: %d:%d is outside of %dx%d minefield",
			ErrOutOfBounds, x, y, g.Minefield.Width, g.Minefield.Height)
	}
	return nil
}

func (g *Game) undoStore() {
	g.undo = &snapshot{state: g.State, minefield: g.Minefield.Clone()}
}

// CanUndo reports whether a snapshot has been stored.
func (g *Game) CanUndo() bool {
	return g.undo != nil
}

// Undo swaps the live state with the stored snapshot. Calling it twice in
// a row puts everything back, so the second call acts as a redo.
func (g *Game) Undo() error {
	if g.undo == nil {
		return ErrNothingToUndo
	}
	g.State, g.undo.state = g.undo.state, g.State
	g.Minefield, g.undo.minefield = g.undo.minefield, g.Minefield

	switch {
	case g.State == Init:
		g.StartedAt, g.EndedAt = time.Time{}, time.Time{}
	case g.State.Over():
		if g.EndedAt.IsZero() {
			g.EndedAt = g.now()
		}
	default:
		g.EndedAt = time.Time{}
	}
	if g.State != Init && g.StartedAt.IsZero() {
		g.StartedAt = g.now()
	}

	g.log.WithField("state", g.State).Debug("undo")
	return nil
}

// start returns a populated copy of the minefield, with the safe zone
// centered on x, y.
func (g *Game) start(x, y int) (*Minefield, error) {
	field := g.Minefield.Clone()
	field.Cursor = Point{X: x, Y: y}
	var err error
	if g.layout != nil {
		err = field.PopulateAt(g.layout)
	} else {
		err = field.Populate(g.rnd)
	}
	if err != nil {
		return nil, err
	}
	return field, nil
}

func (g *Game) die(x, y int) {
	g.State = Dead
	g.EndedAt = g.now()
	g.Minefield.RevealMines()
	g.log.WithFields(logrus.Fields{
		"x": x, "y": y, "elapsed": g.Elapsed(g.EndedAt).String(),
	}).Debug("stepped on a mine")
}

func (g *Game) checkVictory() {
	if !g.Minefield.CheckVictory() {
		return
	}
	g.State = Victory
	g.EndedAt = g.now()
	g.Minefield.RevealAll()
	g.log.WithField("elapsed", g.Elapsed(g.EndedAt).String()).Debug("victory")
}

// ClickTile reveals the tile at x, y. The first click of a game places the
// mines, keeping the clicked tile and its neighbors clear.
func (g *Game) ClickTile(x, y int) error {
	if err := g.checkPosition(x, y); err != nil {
		return err
	}
	if g.State.Over() {
		return ErrGameOver
	}
	if g.Minefield.Tile(x, y).Flagged {
		return ErrFlagged
	}

	var started *Minefield
	if g.State == Init {
		field, err := g.start(x, y)
		if err != nil {
			return err
		}
		started = field
	}

	g.undoStore()
	if started != nil {
		g.Minefield = started
		g.State = Alive
		g.StartedAt = g.now()
	}

	if !g.Minefield.Reveal(x, y) {
		g.die(x, y)
		return nil
	}
	g.checkVictory()
	return nil
}

func (g *Game) ToggleFlag(x, y int) error {
	if err := g.checkPosition(x, y); err != nil {
		return err
	}
	switch {
	case g.State == Init:
		return ErrNotStarted
	case g.State.Over():
		return ErrGameOver
	case g.Minefield.Tile(x, y).Visible:
		return ErrVisible
	}

	g.undoStore()
	g.Minefield.ToggleFlag(x, y)
	// Victory counts hidden tiles, so a flag alone never wins; checked
	// anyway so every action goes through the same exit.
	g.checkVictory()
	return nil
}

// ChordTile opens every hidden, unflagged neighbor of an open tile whose
// mine count is already matched by flags around it.
func (g *Game) ChordTile(x, y int) error {
	if err := g.checkPosition(x, y); err != nil {
		return err
	}
	switch {
	case g.State == Init:
		return ErrNotStarted
	case g.State.Over():
		return ErrGameOver
	}

	m := g.Minefield
	t := m.Tile(x, y)
	if !t.Visible || t.Mine || m.CountSurroundingFlags(x, y) != t.Surrounding {
		return ErrNotChordable
	}

	var targets []Point
	m.neighbors(x, y, func(nx, ny int) {
		if n := m.at(nx, ny); !n.Visible && !n.Flagged {
			targets = append(targets, Point{X: nx, Y: ny})
		}
	})
	if len(targets) == 0 {
		return nil
	}

	g.undoStore()
	for _, p := range targets {
		if !g.Minefield.Reveal(p.X, p.Y) {
			g.die(p.X, p.Y)
			return nil
		}
	}
	g.checkVictory()
	return nil
}

func (g *Game) SetCursor(x, y int) error {
	return g.Minefield.SetCursor(x, y)
}

func (g *Game) MoveCursor(dx, dy int) {
	g.Minefield.MoveCursor(dx, dy)
}

// Elapsed is the play time so far, frozen once the game is over.
func (g *Game) Elapsed(now time.Time) time.Duration {
	switch {
	case g.StartedAt.IsZero():
		return 0
	case !g.EndedAt.IsZero():
		return g.EndedAt.Sub(g.StartedAt)
	default:
		return now.Sub(g.StartedAt)
	}
}

func (g *Game) MinesLeft() int {
	return g.Minefield.MinesLeft()
}
