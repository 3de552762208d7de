// Package session owns the game being played and serializes access to it
// between the input loop and the ticker.
package session

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/smines/internal/mines"
)

var ErrUndoDisabled = errors.New("undo is disabled")

type Session struct {
	mu sync.Mutex

	params    mines.GameParams
	allowUndo bool
	rnd       *rand.Rand
	now       func() time.Time
	game      *mines.Game
	number    int
	log       *logrus.Entry
}

type Option func(*Session)

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rnd = r }
}

func WithUndo(allow bool) Option {
	return func(s *Session) { s.allowUndo = allow }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) { s.log = log }
}

func New(params mines.GameParams, opts ...Option) (*Session, error) {
	s := &Session{
		params: params,
		now:    time.Now,
		log:    logrus.NewEntry(mines.Log),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = mines.NewRand()
	}
	if err := s.newGame(params); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) newGame(params mines.GameParams) error {
	game, err := mines.NewGame(params, mines.WithRand(s.rnd), mines.WithClock(s.now))
	if err != nil {
		return err
	}
	s.params = params
	s.game = game
	s.number++
	s.log.WithFields(logrus.Fields{
		"game_id": game.ID.String(),
		"number":  s.number,
		"params":  params.String(),
	}).Info("new game")
	return nil
}

// Do runs fn against the current game while holding the lock.
func (s *Session) Do(fn func(*mines.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.game.State
	err := fn(s.game)
	if after := s.game.State; after != before {
		s.log.WithFields(logrus.Fields{
			"game_id": s.game.ID.String(),
			"from":    before.String(),
			"to":      after.String(),
		}).Info("game state changed")
	}
	return err
}

// View gives fn read access to the current game. fn must not mutate it.
func (s *Session) View(fn func(*mines.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

func (s *Session) Undo() error {
	if !s.allowUndo {
		return ErrUndoDisabled
	}
	return s.Do(func(g *mines.Game) error { return g.Undo() })
}

// Restart replaces the current game with a fresh one of the same size.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newGame(s.params)
}

// NewGame replaces the current game with one of a different size. The
// current game is kept if params are invalid.
func (s *Session) NewGame(params mines.GameParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newGame(params)
}

func (s *Session) Number() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.number
}

func (s *Session) Params() mines.GameParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *Session) AllowUndo() bool {
	return s.allowUndo
}

// Now is the session's clock, used to compute elapsed time.
func (s *Session) Now() time.Time {
	return s.now()
}
