package history

import "sync"

// Tables holds the lookup tables shared by the decoders and the symmetry
// transforms. A Tables value is never modified after construction, so one
// instance can be shared between goroutines.
type Tables struct {
	symbols    map[string]Chain
	chainByKey map[string]Chain
	reflect    [4][NumTiles]Tile
}

var (
	stdTables     *Tables
	stdTablesOnce sync.Once
)

// StandardTables returns the process-wide tables, built on first use.
func StandardTables() *Tables {
	stdTablesOnce.Do(func() {
		stdTables = newTables()
	})
	return stdTables
}

func newTables() *Tables {
	t := &Tables{
		symbols: map[string]Chain{
			"L": Luxor,
			"T": Tower,
			"W": Worldwide,
			"A": American,
			"F": Festival,
			"I": Imperial,
			"C": Continental,
			"#": Unconnected,
		},
		chainByKey: make(map[string]Chain, len(chainNames)),
	}
	for id, name := range chainNames {
		t.chainByKey[name] = Chain(id)
	}

	for mode := 0; mode < 4; mode++ {
		horizontal, vertical := mode&1 != 0, mode&2 != 0
		for r := 0; r < Rows; r++ {
			for c := 0; c < Cols; c++ {
				nr, nc := r, c
				if horizontal {
					nc = Cols - 1 - c
				}
				if vertical {
					nr = Rows - 1 - r
				}
				t.reflect[mode][TileAt(r, c)] = TileAt(nr, nc)
			}
		}
	}
	return t
}

// Layer returns the board layer for a cell symbol.
func (t *Tables) Layer(symbol string) (Chain, bool) {
	c, ok := t.symbols[symbol]
	return c, ok
}

// ChainByName resolves a chain name as printed in the logs.
func (t *Tables) ChainByName(name string) (Chain, bool) {
	c, ok := t.chainByKey[name]
	return c, ok
}

// Reflect maps a tile through a board reflection. NoTile maps to itself.
func (t *Tables) Reflect(tile Tile, horizontal, vertical bool) Tile {
	if tile == NoTile || tile >= NumTiles {
		return tile
	}
	mode := 0
	if horizontal {
		mode |= 1
	}
	if vertical {
		mode |= 2
	}
	return t.reflect[mode][tile]
}
