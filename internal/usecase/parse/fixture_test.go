package parse_test

import (
	"fmt"
	"strings"

	"hale/internal/domain/history"
)

const symbols = "LTWAFIC#"

// logWriter renders game states and turns in the simulator's log format.
type logWriter struct {
	b strings.Builder
}

func (w *logWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *logWriter) state(s history.GameState) {
	for r := 0; r < history.Rows; r++ {
		for c := 0; c < history.Cols; c++ {
			if l := s.Board.LayerAt(r, c); l >= 0 {
				w.b.WriteByte(symbols[l])
			} else {
				w.b.WriteByte('.')
			}
			w.b.WriteByte(' ')
		}
		w.b.WriteByte('\n')
	}
	w.line("Players:")
	for i, p := range s.Players {
		w.line("Player %d (%s)", i, p.Name)
		w.line("$%d", p.Cash)
		tiles := make([]string, len(p.Tiles))
		for j, t := range p.Tiles {
			tiles[j] = fmt.Sprint(uint8(t))
		}
		w.line("Tiles: %s ", strings.Join(tiles, " "))
		counts := make([]string, len(p.Stocks))
		for j, s := range p.Stocks {
			counts[j] = fmt.Sprint(s.Count)
		}
		w.line("Stocks: %s ", strings.Join(counts, " "))
		w.line("Total value: $%d", p.Value)
	}
}

func (w *logWriter) header(seat string, s history.GameState) {
	w.line("runGame: Starting player: %s", seat)
	w.state(s)
}

// turn writes a turn block; extra lines go between the base action and
// the canEndGame marker.
func (w *logWriter) turn(player int, tile history.Tile, extra []string, s history.GameState) {
	w.line("TURN START")
	w.line("handleTilePlayPhase: Player Number: %d", player)
	w.line("handleTilePlayPhase: Playing tile: %d", uint8(tile))
	for _, l := range extra {
		w.line("%s", l)
	}
	w.line("runGame: canEndGame: 0")
	w.state(s)
}

func (w *logWriter) trailer(winner, value int, s history.GameState) {
	w.line("runGame: END OF GAME")
	w.line("runGame: Winner: %d", winner)
	w.line("runGame: Value: %d", value)
	w.state(s)
}

func (w *logWriter) String() string { return w.b.String() }

func fixturePlayer(seat int, cash int, tiles ...history.Tile) history.Player {
	p := history.Player{
		Name:  fmt.Sprintf("bot-%d", seat),
		Cash:  cash,
		Tiles: tiles,
		Value: cash + 100*seat,
	}
	for c := range p.Stocks {
		p.Stocks[c] = history.Stock{Chain: history.Chain(c), Count: (seat + c) % 3}
	}
	return p
}

func fixtureState(cells map[history.Tile]history.Chain, cash int) history.GameState {
	var s history.GameState
	for t, c := range cells {
		s.Board.Set(c, t.Row(), t.Col())
	}
	for i := range s.Players {
		s.Players[i] = fixturePlayer(i, cash, history.Tile(i), history.Tile(20+i), history.NoTile)
	}
	return s
}

func stateLines(s history.GameState) []string {
	var w logWriter
	w.state(s)
	return strings.Split(strings.TrimSuffix(w.String(), "\n"), "\n")
}
