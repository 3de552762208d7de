package mines

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestGame(t *testing.T, params GameParams, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	g, err := NewGame(params, opts...)
	require.NoError(t, err)
	return g
}

// enclosedLayout walls off the non-mine corner 0:0 so that no first click
// near the center can win the game outright.
var enclosedLayout = []Point{
	{1, 0}, {0, 1}, {1, 1},
	{8, 8}, {7, 8}, {8, 0}, {0, 8},
	{6, 2}, {2, 6}, {7, 5},
}

func TestNewGame(t *testing.T) {
	g, err := NewGame(GameParams{Width: 9, Height: 9, MineCount: 10})
	require.NoError(t, err)
	assert.Equal(t, Init, g.State)
	assert.NotEqual(t, uuid.Nil, g.ID)
	assert.False(t, g.Minefield.Populated())
	assert.False(t, g.CanUndo())
	assert.Equal(t, 10, g.MinesLeft())
	assert.Zero(t, g.Elapsed(time.Now()))

	_, err = NewGame(GameParams{Width: 9, Height: 9, MineCount: 73})
	assert.ErrorIs(t, err, ErrInvalidParams)

	id := uuid.New()
	g, err = NewGame(GameParams{Width: 9, Height: 9, MineCount: 10}, WithID(id))
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)
}

func TestFirstClickIsSafe(t *testing.T) {
	params := GameParams{Width: 9, Height: 9, MineCount: 72}
	r := rand.New(rand.NewPCG(5, 6))
	for x := range params.Width {
		for y := range params.Height {
			g := newTestGame(t, params, WithRand(r))
			require.NoError(t, g.ClickTile(x, y))
			assert.NotEqual(t, Dead, g.State, "first click at %d:%d", x, y)
			assert.Equal(t, Point{x, y}, g.Minefield.Cursor)
			assert.True(t, g.Minefield.Populated())
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if g.Minefield.InBounds(x+dx, y+dy) {
						assert.False(t, g.Minefield.Tile(x+dx, y+dy).Mine)
					}
				}
			}
		}
	}
}

func TestScenarioSingleMine(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 5, Height: 5, MineCount: 1},
		WithLayout(Point{4, 4}))
	require.NoError(t, g.SetCursor(0, 0))

	require.NoError(t, g.ClickTile(0, 0))
	// The cascade from 0:0 opens every safe tile, so the first click wins.
	assert.Equal(t, Victory, g.State)
	assert.True(t, g.Minefield.Tile(4, 4).Visible, "victory reveals the mine")

	require.NoError(t, g.Undo())
	require.Equal(t, Init, g.State)
	require.NoError(t, g.Undo())
	require.Equal(t, Victory, g.State)
}

func TestScenarioFlagThenWin(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 5, Height: 5, MineCount: 2},
		WithLayout(Point{4, 4}, Point{4, 2}))
	require.NoError(t, g.SetCursor(0, 0))

	require.NoError(t, g.ClickTile(0, 0))
	require.Equal(t, Alive, g.State)
	assert.False(t, g.Minefield.Tile(4, 4).Visible)
	assert.False(t, g.Minefield.Tile(4, 3).Visible)
	assert.Equal(t, 3, g.Minefield.HiddenCount())

	require.NoError(t, g.ToggleFlag(4, 4))
	assert.Equal(t, Alive, g.State, "flags never win on their own")
	assert.Equal(t, 1, g.MinesLeft())

	for y := range 5 {
		for x := range 5 {
			tile := g.Minefield.Tile(x, y)
			if tile.Mine || tile.Visible || g.State.Over() {
				continue
			}
			require.NoError(t, g.ClickTile(x, y))
		}
	}
	assert.Equal(t, Victory, g.State)
	for _, tile := range g.Minefield.tiles {
		assert.True(t, tile.Visible, "victory reveals the whole board")
	}
}

func TestScenarioDeathOnSecondMove(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...), WithClock(clock.Now))

	require.NoError(t, g.ClickTile(4, 4))
	require.Equal(t, Alive, g.State)
	require.False(t, g.Minefield.Tile(8, 8).Visible)

	assert.False(t, g.Minefield.Clone().Reveal(8, 8))

	clock.Advance(5 * time.Second)
	require.NoError(t, g.ClickTile(8, 8))
	assert.Equal(t, Dead, g.State)
	for _, p := range enclosedLayout {
		assert.True(t, g.Minefield.Tile(p.X, p.Y).Visible, "mine %s", p)
	}
	assert.False(t, g.Minefield.Tile(0, 0).Visible, "only mines are revealed on death")
	assert.Equal(t, 5*time.Second, g.Elapsed(clock.Now().Add(time.Hour)))

	assert.ErrorIs(t, g.ClickTile(0, 0), ErrGameOver)
	assert.ErrorIs(t, g.ToggleFlag(0, 0), ErrGameOver)
	assert.ErrorIs(t, g.ChordTile(4, 4), ErrGameOver)
}

func TestSeededGamesRepeat(t *testing.T) {
	params := GameParams{Width: 16, Height: 16, MineCount: 40}
	a := newTestGame(t, params, WithRand(NewSeededRand(42)))
	b := newTestGame(t, params, WithRand(NewSeededRand(42)))
	require.NoError(t, a.ClickTile(3, 3))
	require.NoError(t, b.ClickTile(3, 3))
	assert.Equal(t, a.Minefield, b.Minefield)
}

func TestClickTileErrors(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...))

	assert.ErrorIs(t, g.ClickTile(9, 0), ErrOutOfBounds)
	assert.ErrorIs(t, g.ClickTile(0, -1), ErrOutOfBounds)
	assert.Equal(t, Init, g.State)
	assert.False(t, g.CanUndo())

	assert.ErrorIs(t, g.ToggleFlag(0, 0), ErrNotStarted)
	assert.ErrorIs(t, g.ChordTile(0, 0), ErrNotStarted)

	require.NoError(t, g.ClickTile(4, 4))
	require.NoError(t, g.ToggleFlag(0, 0))

	before := g.Minefield.Clone()
	undoBefore := g.undo
	assert.ErrorIs(t, g.ClickTile(0, 0), ErrFlagged)
	assert.Equal(t, before, g.Minefield)
	assert.Same(t, undoBefore, g.undo, "rejected click must not take a snapshot")

	assert.ErrorIs(t, g.ToggleFlag(4, 4), ErrVisible)
	assert.ErrorIs(t, g.ToggleFlag(4, 9), ErrOutOfBounds)
}

func TestFirstClickWithBadLayout(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...))

	err := g.ClickTile(0, 2)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.Equal(t, Init, g.State)
	assert.False(t, g.Minefield.Populated())
	assert.False(t, g.CanUndo())
}

func TestToggleFlagCounts(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...))
	require.NoError(t, g.ClickTile(4, 4))

	require.NoError(t, g.ToggleFlag(8, 8))
	require.NoError(t, g.ToggleFlag(0, 0))
	assert.Equal(t, 2, g.Minefield.PlacedFlags)
	assert.Equal(t, 8, g.MinesLeft())

	require.NoError(t, g.ToggleFlag(0, 0))
	assert.Equal(t, 1, g.Minefield.PlacedFlags)

	flagged := 0
	for _, tile := range g.Minefield.tiles {
		if tile.Flagged {
			flagged++
		}
	}
	assert.Equal(t, g.Minefield.PlacedFlags, flagged)
}

func TestChordTile(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 5, Height: 5, MineCount: 2},
		WithLayout(Point{4, 4}, Point{4, 2}))
	require.NoError(t, g.SetCursor(0, 0))
	require.NoError(t, g.ClickTile(0, 0))
	require.Equal(t, Alive, g.State)

	// 3:3 touches both mines but only one is flagged.
	require.NoError(t, g.ToggleFlag(4, 4))
	assert.ErrorIs(t, g.ChordTile(3, 3), ErrNotChordable)
	assert.ErrorIs(t, g.ChordTile(4, 3), ErrNotChordable, "hidden tile")

	require.NoError(t, g.ToggleFlag(4, 2))
	require.NoError(t, g.ChordTile(3, 3))
	assert.Equal(t, Victory, g.State)
}

func TestChordTileWrongFlag(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 5, Height: 5, MineCount: 2},
		WithLayout(Point{4, 4}, Point{4, 2}))
	require.NoError(t, g.SetCursor(0, 0))
	require.NoError(t, g.ClickTile(0, 0))

	// 3:4 has one mine around it; flag the wrong neighbor and chord.
	require.NoError(t, g.ToggleFlag(4, 3))
	require.NoError(t, g.ChordTile(3, 4))
	assert.Equal(t, Dead, g.State)
	assert.True(t, g.Minefield.Tile(4, 4).Visible)

	require.NoError(t, g.Undo())
	assert.Equal(t, Alive, g.State)
	assert.False(t, g.Minefield.Tile(4, 4).Visible)
	assert.True(t, g.Minefield.Tile(4, 3).Flagged)
}

func TestChordNothingToOpen(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...))
	require.NoError(t, g.ClickTile(4, 4))
	undoBefore := g.undo

	require.NoError(t, g.ChordTile(4, 4))
	assert.Same(t, undoBefore, g.undo)
}

func TestUndoNothingStored(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10})
	assert.ErrorIs(t, g.Undo(), ErrNothingToUndo)
	assert.Equal(t, Init, g.State)
}

func TestUndoSymmetry(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...))

	require.NoError(t, g.ClickTile(4, 4))
	afterFirst := g.Minefield.Clone()

	require.NoError(t, g.ToggleFlag(8, 8))
	require.NoError(t, g.ClickTile(8, 8-1)) // 8:7, a numbered tile
	afterLast, lastState := g.Minefield.Clone(), g.State

	require.NoError(t, g.Undo())
	assert.Equal(t, Alive, g.State)
	assert.True(t, g.Minefield.Tile(8, 8).Flagged)
	assert.False(t, g.Minefield.Tile(8, 7).Visible)

	require.NoError(t, g.Undo())
	assert.Equal(t, lastState, g.State)
	assert.Equal(t, afterLast, g.Minefield)

	require.NoError(t, g.Undo())
	require.NoError(t, g.Undo())
	assert.Equal(t, afterLast, g.Minefield)
	assert.NotEqual(t, afterFirst, g.Minefield)
}

func TestUndoDeath(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10},
		WithLayout(enclosedLayout...), WithClock(clock.Now))
	require.NoError(t, g.ClickTile(4, 4))

	clock.Advance(time.Second)
	require.NoError(t, g.ClickTile(1, 1))
	require.Equal(t, Dead, g.State)
	assert.False(t, g.EndedAt.IsZero())

	require.NoError(t, g.Undo())
	assert.Equal(t, Alive, g.State)
	assert.True(t, g.EndedAt.IsZero())
	clock.Advance(time.Second)
	assert.Equal(t, 2*time.Second, g.Elapsed(clock.Now()))

	require.NoError(t, g.ClickTile(0, 2))
	assert.Equal(t, Alive, g.State)
}

func TestUndoFirstClick(t *testing.T) {
	g := newTestGame(t, GameParams{Width: 9, Height: 9, MineCount: 10})
	require.NoError(t, g.ClickTile(4, 4))
	require.NoError(t, g.Undo())

	assert.Equal(t, Init, g.State)
	assert.False(t, g.Minefield.Populated())
	assert.True(t, g.StartedAt.IsZero())

	// Clicking again places a fresh set of mines around the new click.
	require.NoError(t, g.ClickTile(0, 0))
	assert.NotEqual(t, Dead, g.State)
	assert.False(t, g.StartedAt.IsZero())
}

func TestGameStateString(t *testing.T) {
	assert.Equal(t, "init", Init.String())
	assert.Equal(t, "alive", Alive.String())
	assert.Equal(t, "victory", Victory.String())
	assert.Equal(t, "dead", Dead.String())
	assert.Equal(t, "GameState(9)", GameState(9).String())
	assert.True(t, Dead.Over())
	assert.True(t, Victory.Over())
	assert.False(t, Alive.Over())
	assert.False(t, Init.Over())
}
