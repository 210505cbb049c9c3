package tictactoe

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-api/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const maxMoves = entity.BoardSize * entity.BoardSize

// Engine owns the single game of the process. Every exported method holds
// the mutex for its whole read-modify-write, so callers always observe
// one complete transition.
type Engine struct {
	mu sync.Mutex

	board         entity.Board
	currentPlayer entity.Mark
	winner        entity.Mark
	isDraw        bool
	isActive      bool
	moveCount     int
}

func NewEngine() *Engine {
	engine := &Engine{}
	engine.reset()

	return engine
}

// Reset - discards the current game and returns the fresh state.
func (that *Engine) Reset() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset()

	return that.snapshot()
}

// State - returns a consistent copy of the current state.
func (that *Engine) State() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// MakeMove - places the current player's mark at (row, col).
// A rejected move leaves the state untouched.
func (that *Engine) MakeMove(row, col int) (entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.validateMove(row, col); err != nil {
		return entity.Snapshot{}, err
	}

	that.board[row][col] = that.currentPlayer
	that.moveCount++

	switch {
	case that.board.HasWon(that.currentPlayer):
		that.winner = that.currentPlayer
		that.isActive = false
	case that.moveCount == maxMoves:
		that.isDraw = true
		that.isActive = false
	default:
		that.currentPlayer = that.currentPlayer.Opponent()
	}

	return that.snapshot(), nil
}

// validateMove - checks run in order, the first failure wins.
func (that *Engine) validateMove(row, col int) error {
	if !that.isActive {
		return apperror.ErrGameOver
	}

	if !entity.InBounds(row, col) {
		return apperror.ErrOutOfRange
	}

	if that.board[row][col] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Engine) reset() {
	that.board = entity.Board{}
	that.currentPlayer = entity.PlayerX
	that.winner = entity.EmptyCell
	that.isDraw = false
	that.isActive = true
	that.moveCount = 0
}

// snapshot - caller must hold mu.
func (that *Engine) snapshot() entity.Snapshot {
	state := entity.Snapshot{
		Board:         that.board,
		CurrentPlayer: that.currentPlayer,
		IsDraw:        that.isDraw,
		IsActive:      that.isActive,
		MoveCount:     that.moveCount,
	}

	if that.winner != entity.EmptyCell {
		winner := that.winner
		state.Winner = &winner
	}

	return state
}
