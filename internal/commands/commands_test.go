package commands

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/smines/internal/mines"
	"github.com/vancomm/smines/internal/session"
)

func TestMain(m *testing.M) {
	mines.Log.SetOutput(io.Discard)
	m.Run()
}

func newTestRunner(t *testing.T, opts ...session.Option) (*Runner, *session.Session, *bytes.Buffer) {
	t.Helper()
	opts = append([]session.Option{session.WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	s, err := session.New(mines.GameParams{Width: 9, Height: 9, MineCount: 10}, opts...)
	require.NoError(t, err)
	var out bytes.Buffer
	return NewRunner(s, &out, logrus.NewEntry(mines.Log)), s, &out
}

func TestByPiece(t *testing.T) {
	testCases := []struct {
		input string
		sep   string
		array []string
	}{
		{"a b c", " ", []string{"a", "b", "c"}},
		{"foo\nbar\nbaz\n\nbazz", "\n", []string{"foo", "bar", "baz", "", "bazz"}},
		{"o 1 2;f 3 4", ";", []string{"o 1 2", "f 3 4"}},
	}
	for _, test := range testCases {
		var pieces []string
		for i, p := range byPiece(test.input, test.sep) {
			assert.Equal(t, len(pieces), i)
			pieces = append(pieces, p)
		}
		assert.Equal(t, test.array, pieces)
	}
}

func TestExecuteErrors(t *testing.T) {
	r, _, _ := newTestRunner(t)

	tests := []struct {
		command string
		err     error
	}{
		{"x", ErrUnknownCommand},
		{"o 1", ErrNargs},
		{"g 1", ErrNargs},
		{"o 9 0", mines.ErrOutOfBounds},
		{"f 1 1", mines.ErrNotStarted},
		{"u", session.ErrUndoDisabled},
		{"n difficulty=nightmare", mines.ErrUnknownDifficulty},
		{"n width=3", mines.ErrInvalidParams},
		{"q", ErrQuit},
	}
	for _, test := range tests {
		assert.ErrorIs(t, r.Execute(test.command), test.err, test.command)
	}

	assert.ErrorContains(t, r.Execute("o a 1"), "first argument must be an int")
	assert.ErrorContains(t, r.Execute("m 1 b"), "second argument must be an int")
	assert.Error(t, r.Execute("n colour=red"))
}

func TestExecuteOpen(t *testing.T) {
	r, s, out := newTestRunner(t)

	require.NoError(t, r.Execute("o 4 4; p"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[4], ".", "the first click opens a zero tile")
	assert.Contains(t, lines[9], "game #1 9x9(10)")
	assert.Contains(t, lines[9], "cursor=4:4")

	s.View(func(g *mines.Game) {
		assert.True(t, g.Minefield.Tile(4, 4).Visible)
	})
}

func TestExecuteMove(t *testing.T) {
	r, _, out := newTestRunner(t)
	require.NoError(t, r.Execute("m 1 1;g"))
	assert.Contains(t, out.String(), "cursor=5:5")
	assert.Contains(t, out.String(), "init")

	out.Reset()
	require.NoError(t, r.Execute("m -20 20;g"))
	assert.Contains(t, out.String(), "cursor=0:8")
}

func TestExecuteUndo(t *testing.T) {
	r, s, out := newTestRunner(t, session.WithUndo(true))
	require.NoError(t, r.Execute("o 4 4; u; g"))
	assert.Contains(t, out.String(), "init")

	require.NoError(t, r.Execute("u"))
	s.View(func(g *mines.Game) {
		assert.NotEqual(t, mines.Init, g.State)
	})
}

func TestExecuteNewGame(t *testing.T) {
	r, s, _ := newTestRunner(t)

	require.NoError(t, r.Execute("n difficulty=hard"))
	assert.Equal(t, mines.GameParams{Width: 30, Height: 16, MineCount: 99}, s.Params())

	require.NoError(t, r.Execute("n width=10 mines=5"))
	assert.Equal(t, mines.GameParams{Width: 10, Height: 16, MineCount: 5}, s.Params())

	require.NoError(t, r.Execute("r"))
	assert.Equal(t, 4, s.Number())
	assert.Equal(t, mines.GameParams{Width: 10, Height: 16, MineCount: 5}, s.Params())
}

func TestExecuteSkipsBlanksAndComments(t *testing.T) {
	r, _, out := newTestRunner(t)
	require.NoError(t, r.Execute(" ;# opening move; ;"))
	assert.Empty(t, out.String())
}

func TestServe(t *testing.T) {
	r, s, out := newTestRunner(t)
	in := strings.NewReader("o 4 4\nbogus\np\nq\nr\n")

	require.NoError(t, r.Serve(context.Background(), in, 0))
	assert.Contains(t, out.String(), "error: bogus: unknown command")
	assert.Contains(t, out.String(), "game #1 9x9(10)")
	assert.Equal(t, 1, s.Number(), "commands after q are not run")
}

func TestServeEOF(t *testing.T) {
	r, s, _ := newTestRunner(t)
	in := strings.NewReader("r\nr")
	require.NoError(t, r.Serve(context.Background(), in, time.Millisecond))
	assert.Equal(t, 3, s.Number())
}

func TestServeCancel(t *testing.T) {
	r, _, _ := newTestRunner(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, pr, 10*time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
