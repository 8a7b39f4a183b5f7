package parse

import (
	"strings"

	"hale/internal/domain/history"
)

const emptyCell = "."

// DecodeBoard reads the 9 board rows, each 12 space separated cell symbols.
func DecodeBoard(lines []string, t *history.Tables) (history.Board, error) {
	var board history.Board
	if len(lines) != history.Rows {
		return board, decodeErr("", -1, "board needs %d rows, got %d", history.Rows, len(lines))
	}
	for r, line := range lines {
		cells := strings.Fields(line)
		if len(cells) != history.Cols {
			return board, decodeErr("", r, "board row needs %d cells, got %d", history.Cols, len(cells))
		}
		for c, symbol := range cells {
			if symbol == emptyCell {
				continue
			}
			layer, ok := t.Layer(symbol)
			if !ok {
				return board, decodeErr("", r, "unknown board symbol %q at column %d", symbol, c)
			}
			board.Set(layer, r, c)
		}
	}
	if err := board.Validate(); err != nil {
		return board, decodeErr("", -1, "%w", err)
	}
	return board, nil
}
