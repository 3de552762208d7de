// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/smines/internal/mines"
	"github.com/vancomm/smines/internal/session"
)

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	session  *session.Session
	keys     KeyMap
	help     help.Model
	tick     time.Duration
	showHelp bool
	err      error

	// terminal size, zero until the first resize message
	width, height int
}

func New(s *session.Session, tickEvery time.Duration) Model {
	keys := DefaultKeyMap()
	keys.Undo.SetEnabled(s.AllowUndo())
	h := help.New()
	h.ShowAll = true
	return Model{
		session: s,
		keys:    keys,
		help:    h,
		tick:    tickEvery,
	}
}

func (m Model) Init() tea.Cmd {
	if m.tick <= 0 {
		return nil
	}
	return tick(m.tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick(m.tick)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		// any other key leaves the help screen
		m.showHelp = false
		return m, nil
	}

	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Up):
		m.err = m.move(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.err = m.move(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.err = m.move(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.err = m.move(1, 0)
	case key.Matches(msg, m.keys.RowStart):
		m.err = m.jump(func(c mines.Point, _ mines.GameParams) mines.Point {
			return mines.Point{X: 0, Y: c.Y}
		})
	case key.Matches(msg, m.keys.RowEnd):
		m.err = m.jump(func(c mines.Point, p mines.GameParams) mines.Point {
			return mines.Point{X: p.Width - 1, Y: c.Y}
		})
	case key.Matches(msg, m.keys.Top):
		m.err = m.jump(func(c mines.Point, _ mines.GameParams) mines.Point {
			return mines.Point{X: c.X, Y: 0}
		})
	case key.Matches(msg, m.keys.Bottom):
		m.err = m.jump(func(c mines.Point, p mines.GameParams) mines.Point {
			return mines.Point{X: c.X, Y: p.Height - 1}
		})
	case key.Matches(msg, m.keys.Reveal):
		m.err = m.atCursor((*mines.Game).ClickTile)
	case key.Matches(msg, m.keys.Flag):
		m.err = m.atCursor((*mines.Game).ToggleFlag)
	case key.Matches(msg, m.keys.Chord):
		m.err = m.atCursor((*mines.Game).ChordTile)
	case key.Matches(msg, m.keys.Undo):
		m.err = m.session.Undo()
	case key.Matches(msg, m.keys.Restart):
		m.err = m.session.Restart()
	}
	return m, nil
}

func (m Model) move(dx, dy int) error {
	return m.session.Do(func(g *mines.Game) error {
		g.MoveCursor(dx, dy)
		return nil
	})
}

func (m Model) jump(to func(cursor mines.Point, params mines.GameParams) mines.Point) error {
	return m.session.Do(func(g *mines.Game) error {
		p := to(g.Minefield.Cursor, g.Minefield.Params())
		return g.SetCursor(p.X, p.Y)
	})
}

func (m Model) atCursor(action func(g *mines.Game, x, y int) error) error {
	return m.session.Do(func(g *mines.Game) error {
		c := g.Minefield.Cursor
		return action(g, c.X, c.Y)
	})
}

func (m Model) View() string {
	if m.showHelp {
		return m.help.View(m.keys)
	}

	var board, scoreboard string
	number := m.session.Number()
	now := m.session.Now()
	m.session.View(func(g *mines.Game) {
		board = boardStyle.Render(renderMinefield(g))
		scoreboard = renderScoreboard(g, number, now)
	})
	view := lipgloss.JoinVertical(lipgloss.Left, scoreboard, board)
	if m.err != nil {
		view = lipgloss.JoinVertical(lipgloss.Left, view, errorStyle.Render(m.err.Error()))
	}

	if m.width > 0 && m.height > 0 {
		w, h := lipgloss.Size(view)
		if w > m.width || h > m.height {
			return fmt.Sprintf(
				"Please make your terminal at least %d cols by %d rows\nCurrent size: %d cols by %d rows",
				w, h, m.width, m.height,
			)
		}
	}
	return view
}

func renderMinefield(g *mines.Game) string {
	f := g.Minefield
	var b strings.Builder
	for y := range f.Height {
		for x := range f.Width {
			t := f.Tile(x, y)
			style := tileStyle(t, g.State)
			if f.Cursor == (mines.Point{X: x, Y: y}) {
				style = cursorStyle
			}
			b.WriteString(style.Render(tileText(t, g.State)))
		}
		if y < f.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderScoreboard(g *mines.Game, number int, now time.Time) string {
	var top string
	switch g.State {
	case mines.Victory:
		top = winStyle.Render("YOU WIN!")
	case mines.Dead:
		top = deathStyle.Render("YOU DIED!")
	default:
		top = hintStyle.Render("Press ? for help")
	}

	f := g.Minefield
	found := 0
	if f.MineCount > 0 {
		found = f.PlacedFlags * 100 / f.MineCount
	}
	return strings.Join([]string{
		top,
		fmt.Sprintf("Game #%d (%dx%d)", number, f.Width, f.Height),
		fmt.Sprintf("Flags: %d", f.PlacedFlags),
		fmt.Sprintf("Mines: %d/%d (%d%%)", g.MinesLeft(), f.MineCount, found),
		fmt.Sprintf("Time: %s", g.Elapsed(now).Truncate(time.Second)),
	}, "\n")
}

// Run blocks until the player quits or ctx is done.
func Run(ctx context.Context, s *session.Session, tickEvery time.Duration, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(s, tickEvery), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
