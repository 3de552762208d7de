package mines

import "errors"

// AssertionError reports a broken caller contract, such as a cell
// position outside the grid. It is raised with panic, never returned
// for recoverable conditions.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

var (
	ErrInvalidParams     = errors.New("invalid game params")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrOutOfBounds       = errors.New("cell position out of bounds")
	ErrPopulated         = errors.New("minefield is already populated")
	ErrInvalidLayout     = errors.New("invalid mine layout")

	ErrGameOver      = errors.New("game is over")
	ErrNotStarted    = errors.New("game has not started yet")
	ErrFlagged       = errors.New("cell is flagged")
	ErrVisible       = errors.New("cell is already open")
	ErrNotChordable  = errors.New("cell cannot be chorded")
	ErrNothingToUndo = errors.New("nothing to undo")
)
