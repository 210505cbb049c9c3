package entity

const BoardSize = 3

// Mark is the content of a cell and the symbol of a player.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Cell is a board position addressed by row and column.
type Cell struct {
	Row int
	Col int
}

// WinLines - all 3 rows, 3 columns and both diagonals.
var WinLines = [8][BoardSize]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board [BoardSize][BoardSize]Mark

// Opponent - returns the mark that moves after m.
func (m Mark) Opponent() Mark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that *Board) At(cell Cell) Mark {
	return that[cell.Row][cell.Col]
}

// HasWon - reports whether all three cells of any line hold the given mark.
func (that *Board) HasWon(mark Mark) bool {
	for _, line := range WinLines {
		if that.At(line[0]) == mark && that.At(line[1]) == mark && that.At(line[2]) == mark {
			return true
		}
	}

	return false
}

// Filled - number of non-empty cells.
func (that *Board) Filled() int {
	filled := 0
	for _, row := range that {
		for _, cell := range row {
			if cell != EmptyCell {
				filled++
			}
		}
	}

	return filled
}

// InBounds - reports whether row and col address a cell of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Snapshot is the observable state of the game at one instant.
type Snapshot struct {
	Board         Board `json:"board"`
	CurrentPlayer Mark  `json:"current_player"`
	Winner        *Mark `json:"winner"`
	IsDraw        bool  `json:"is_draw"`
	IsActive      bool  `json:"is_active"`
	MoveCount     int   `json:"move_count"`
}

// IsFinished - the game reached a win or a draw.
func (that *Snapshot) IsFinished() bool {
	return !that.IsActive
}
