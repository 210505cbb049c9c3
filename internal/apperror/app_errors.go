package apperror

import "errors"

// Move rejections. The messages are returned to HTTP clients verbatim.
//
//nolint:revive,stylecheck // messages are part of the public API contract
var (
	ErrGameOver     = errors.New("Game is over. Please restart to play again.")
	ErrOutOfRange   = errors.New("Move out of board range.")
	ErrCellOccupied = errors.New("Cell already occupied.")
)

var clientErrors = []error{
	ErrGameOver,
	ErrOutOfRange,
	ErrCellOccupied,
}

// ClientMessage - returns the client-facing message when err wraps one of the move rejections.
func ClientMessage(err error) (string, bool) {
	for _, clientErr := range clientErrors {
		if errors.Is(err, clientErr) {
			return clientErr.Error(), true
		}
	}

	return "", false
}
