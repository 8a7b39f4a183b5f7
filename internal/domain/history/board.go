package history

import "fmt"

// NumLayers is one layer per chain plus one for unaffiliated tiles.
const NumLayers = NumChains + 1

// Board is a one-hot encoding of the board: Layers[l][row][col] is 1 when
// the cell is occupied by chain l, or by an unaffiliated tile for l == 7.
type Board struct {
	Layers [NumLayers][Rows][Cols]uint8 `json:"layers" bson:"layers"`
}

// Set marks the cell as belonging to layer.
func (b *Board) Set(layer Chain, row, col int) {
	b.Layers[layer][row][col] = 1
}

// LayerAt returns the layer set for the cell, or -1 when the cell is empty.
// On a board that fails Validate the lowest set layer wins.
func (b *Board) LayerAt(row, col int) int {
	for l := 0; l < NumLayers; l++ {
		if b.Layers[l][row][col] != 0 {
			return l
		}
	}
	return -1
}

// Occupied counts the set cells over all layers.
func (b *Board) Occupied() int {
	n := 0
	for l := range b.Layers {
		for r := range b.Layers[l] {
			for c := range b.Layers[l][r] {
				if b.Layers[l][r][c] != 0 {
					n++
				}
			}
		}
	}
	return n
}

// Validate checks that no cell has more than one layer set and that every
// entry is 0 or 1.
func (b *Board) Validate() error {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			set := 0
			for l := 0; l < NumLayers; l++ {
				switch b.Layers[l][r][c] {
				case 0:
				case 1:
					set++
				default:
					return fmt.Errorf("cell %s layer %d holds %d", TileAt(r, c), l, b.Layers[l][r][c])
				}
			}
			if set > 1 {
				return fmt.Errorf("cell %s has %d layers set", TileAt(r, c), set)
			}
		}
	}
	return nil
}
