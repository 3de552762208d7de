package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/smines/internal/mines"
)

// Serve reads commands from in until EOF, a quit command or ctx is done.
// A failing command is reported on the runner's output and does not stop
// the loop. When tick is positive, the current game is logged on every
// tick while it is running.
func (r *Runner) Serve(ctx context.Context, in io.Reader, tick time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		lineno := 0
		for {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case line, ok := <-lines:
				if !ok {
					select {
					case err := <-scanErr:
						return err
					default:
						return nil
					}
				}
				lineno++
				err := r.Execute(line)
				if errors.Is(err, ErrQuit) {
					return nil
				}
				if err != nil {
					r.log.WithError(err).WithField("line", lineno).Warn("command failed")
					if _, err := fmt.Fprintf(r.out, "error: %s\n", err); err != nil {
						return err
					}
				}
			}
		}
	})
	if tick > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(tick)
			defer ticker.Stop()
			for {
				select {
				case <-gCtx.Done():
					return nil
				case <-ticker.C:
					r.session.View(func(game *mines.Game) {
						if game.State != mines.Alive {
							return
						}
						r.log.WithFields(logrus.Fields{
							"game_id": game.ID.String(),
							"elapsed": game.Elapsed(r.session.Now()).Truncate(time.Second).String(),
						}).Debug("tick")
					})
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
