package augment

import "hale/internal/domain/history"

// Apply returns a deep copy of h with t applied to every chain and tile
// reference. h is not modified.
func Apply(h *history.GameHistory, t Transform, tables *history.Tables) *history.GameHistory {
	out := h.Clone()
	applyHistory(out, t, tables)
	return out
}

// applyHistory transforms h in place. Winner and value index seats and are
// left alone, as are the seat lists inside merges.
func applyHistory(h *history.GameHistory, t Transform, tables *history.Tables) {
	applyState(&h.Start, t, tables)
	for i := range h.Turns {
		applyAction(&h.Turns[i].Action, t, tables)
		applyState(&h.Turns[i].State, t, tables)
	}
	applyState(&h.End, t, tables)
}

func applyState(s *history.GameState, t Transform, tables *history.Tables) {
	s.Board = TransformBoard(s.Board, t)
	for i := range s.Players {
		applyPlayer(&s.Players[i], t, tables)
	}
}

// TransformBoard moves layer c to layer t.Perm[c], then mirrors columns
// and rows as requested.
func TransformBoard(b history.Board, t Transform) history.Board {
	var out history.Board
	for l := range b.Layers {
		to := t.Chain(history.Chain(l))
		for r := 0; r < history.Rows; r++ {
			nr := r
			if t.Vertical {
				nr = history.Rows - 1 - r
			}
			for c := 0; c < history.Cols; c++ {
				nc := c
				if t.Horizontal {
					nc = history.Cols - 1 - c
				}
				out.Layers[to][nr][nc] = b.Layers[l][r][c]
			}
		}
	}
	return out
}

func applyPlayer(p *history.Player, t Transform, tables *history.Tables) {
	for i, tile := range p.Tiles {
		p.Tiles[i] = t.Tile(tile, tables)
	}
	var stocks [history.NumChains]history.Stock
	for c, s := range p.Stocks {
		to := t.Chain(history.Chain(c))
		stocks[to] = history.Stock{Chain: to, Count: s.Count}
	}
	p.Stocks = stocks
}

func applyAction(a *history.Action, t Transform, tables *history.Tables) {
	a.Tile = t.Tile(a.Tile, tables)
	if a.Create != nil {
		a.Create.Chain = t.Chain(a.Create.Chain)
	}
	if a.Share != nil {
		for i := range a.Share.Purchases {
			a.Share.Purchases[i].Chain = t.Chain(a.Share.Purchases[i].Chain)
		}
	}
	if a.Merge != nil {
		for i, c := range a.Merge.Chains {
			a.Merge.Chains[i] = t.Chain(c)
		}
		a.Merge.Survivor = t.Chain(a.Merge.Survivor)
	}
}
