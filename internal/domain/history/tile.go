package history

import "strconv"

const (
	Rows     = 9
	Cols     = 12
	NumTiles = Rows * Cols
)

// Tile is a row-major board cell index in [0, NumTiles), or NoTile for an
// empty hand slot.
type Tile uint8

const NoTile Tile = 255

// TileAt returns the tile for a row and column on the board.
func TileAt(row, col int) Tile {
	return Tile(row*Cols + col)
}

func (t Tile) Valid() bool {
	return t < NumTiles || t == NoTile
}

func (t Tile) Row() int { return int(t) / Cols }

func (t Tile) Col() int { return int(t) % Cols }

// String renders the tile the way it is printed on a physical board,
// column number then row letter ("1A" is the top-left cell).
func (t Tile) String() string {
	if t == NoTile {
		return "-"
	}
	if t >= NumTiles {
		return "Tile(" + strconv.Itoa(int(t)) + ")"
	}
	return strconv.Itoa(t.Col()+1) + string(rune('A'+t.Row()))
}

// MarshalJSON writes the tile as a plain number so hands encode as arrays
// rather than base64.
func (t Tile) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(t), 10), nil
}
