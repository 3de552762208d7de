// Package commands implements the line protocol used to script a game:
//
//	o x y     open a tile
//	f x y     toggle a flag
//	c x y     chord an open tile
//	m dx dy   move the cursor
//	u         undo (or redo) the last action
//	r         restart with the same size
//	n k=v...  new game, e.g. "n difficulty=hard" or "n width=9 height=9 mines=10"
//	g         print the status line
//	p         print the board and the status line
//	q         quit
//
// Commands are separated by newlines or semicolons.
package commands

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/smines/internal/mines"
	"github.com/vancomm/smines/internal/session"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNargs          = errors.New("invalid number of arguments")
	ErrQuit           = errors.New("quit")
)

// Maps known commands to number of arguments, -1 meaning any
var commandNargs = map[string]int{
	"g": 0,
	"p": 0,
	"o": 2,
	"f": 2,
	"c": 2,
	"m": 2,
	"u": 0,
	"r": 0,
	"n": -1,
	"q": 0,
}

var decoder = schema.NewDecoder()

type NewGameArgs struct {
	Difficulty string `schema:"difficulty"`
	Width      int    `schema:"width"`
	Height     int    `schema:"height"`
	Mines      int    `schema:"mines"`
}

// Params resolves args against base: a difficulty replaces base, then any
// non-zero size field overrides it.
func (a NewGameArgs) Params(base mines.GameParams) (mines.GameParams, error) {
	params := base
	if a.Difficulty != "" {
		preset, err := mines.LookupPreset(a.Difficulty)
		if err != nil {
			return params, err
		}
		params = preset
	}
	if a.Width != 0 {
		params.Width = a.Width
	}
	if a.Height != 0 {
		params.Height = a.Height
	}
	if a.Mines != 0 {
		params.MineCount = a.Mines
	}
	return params, params.Validate()
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func parseNewGameArgs(args []string) (NewGameArgs, error) {
	var a NewGameArgs
	query, err := url.ParseQuery(strings.Join(args, "&"))
	if err != nil {
		return a, err
	}
	if err := decoder.Decode(&a, query); err != nil {
		return a, err
	}
	return a, nil
}

type Runner struct {
	session *session.Session
	out     io.Writer
	log     *logrus.Entry
}

func NewRunner(s *session.Session, out io.Writer, log *logrus.Entry) *Runner {
	return &Runner{session: s, out: out, log: log}
}

// Execute runs every command in line, stopping at the first error.
func (r *Runner) Execute(line string) error {
	for _, piece := range byPiece(line, ";") {
		c := strings.TrimSpace(piece)
		if c == "" || strings.HasPrefix(c, "#") {
			continue
		}
		if err := r.executeCommand(c); err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
	}
	return nil
}

func (r *Runner) executeCommand(c string) error {
	parts := strings.Fields(c)
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return ErrUnknownCommand
	}
	if nargs >= 0 && nargs != len(parts)-1 {
		return ErrNargs
	}
	r.log.WithField("command", c).Debug("execute")

	switch parts[0] {
	case "g":
		return r.printStatus()
	case "p":
		return r.printBoard()
	case "o", "f", "c":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		return r.session.Do(func(g *mines.Game) error {
			switch parts[0] {
			case "o":
				return g.ClickTile(x, y)
			case "f":
				return g.ToggleFlag(x, y)
			default:
				return g.ChordTile(x, y)
			}
		})
	case "m":
		dx, dy, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		return r.session.Do(func(g *mines.Game) error {
			g.MoveCursor(dx, dy)
			return nil
		})
	case "u":
		return r.session.Undo()
	case "r":
		return r.session.Restart()
	case "n":
		args, err := parseNewGameArgs(parts[1:])
		if err != nil {
			return err
		}
		params, err := args.Params(r.session.Params())
		if err != nil {
			return err
		}
		return r.session.NewGame(params)
	case "q":
		return ErrQuit
	}
	return errors.New("invalid command")
}

func (r *Runner) printStatus() (err error) {
	number := r.session.Number()
	r.session.View(func(g *mines.Game) {
		_, err = fmt.Fprintf(r.out, "game #%d %s %s cursor=%s mines=%d time=%s\n",
			number, g.Minefield.Params(), g.State, g.Minefield.Cursor,
			g.MinesLeft(), g.Elapsed(r.session.Now()).Truncate(time.Second))
	})
	return
}

func (r *Runner) printBoard() (err error) {
	var board string
	r.session.View(func(g *mines.Game) {
		board = g.Minefield.String()
	})
	if _, err = io.WriteString(r.out, board); err != nil {
		return err
	}
	return r.printStatus()
}
