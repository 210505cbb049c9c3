package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const (
	colorX = "#E06C75"
	colorO = "#61AFEF"
)

type Renderer struct {
	output *termenv.Output
}

// NewRenderer - colors degrade to the capabilities of the terminal behind w.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{output: termenv.NewOutput(w, opts...)}
}

// Render - draws the board followed by a status line.
func (that *Renderer) Render(state entity.Snapshot) error {
	var sb strings.Builder

	for row := range entity.BoardSize {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		cells := make([]string, 0, entity.BoardSize)
		for col := range entity.BoardSize {
			cells = append(cells, " "+that.mark(state.Board[row][col])+" ")
		}
		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("\n")
	}

	sb.WriteString(that.status(state))
	sb.WriteString("\n")

	if _, err := io.WriteString(that.output, sb.String()); err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}

	return nil
}

func (that *Renderer) mark(mark entity.Mark) string {
	switch mark {
	case entity.PlayerX:
		return that.output.String(string(mark)).Foreground(that.output.Color(colorX)).Bold().String()
	case entity.PlayerO:
		return that.output.String(string(mark)).Foreground(that.output.Color(colorO)).Bold().String()
	default:
		return " "
	}
}

func (that *Renderer) status(state entity.Snapshot) string {
	switch {
	case state.Winner != nil:
		return fmt.Sprintf("%s wins after %d moves", that.mark(*state.Winner), state.MoveCount)
	case state.IsDraw:
		return "Draw"
	default:
		return fmt.Sprintf("%s to move (%d moves played)", that.mark(state.CurrentPlayer), state.MoveCount)
	}
}
