package parse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hale/internal/domain/history"
	errs "hale/internal/errors"
	"hale/internal/usecase/parse"
)

func emptyRows() []string {
	rows := make([]string, history.Rows)
	for i := range rows {
		rows[i] = strings.Repeat(". ", history.Cols)
	}
	return rows
}

func TestDecodeBoard(t *testing.T) {
	rows := emptyRows()
	rows[2] = ". . . L . . . . . . . # "
	rows[8] = "C . . . . . . . . . . W"

	b, err := parse.DecodeBoard(rows, history.StandardTables())
	require.NoError(t, err)
	assert.Equal(t, 4, b.Occupied())
	assert.Equal(t, uint8(1), b.Layers[history.Luxor][2][3])
	assert.Equal(t, uint8(1), b.Layers[history.Unconnected][2][11])
	assert.Equal(t, uint8(1), b.Layers[history.Continental][8][0])
	assert.Equal(t, uint8(1), b.Layers[history.Worldwide][8][11])
	assert.Equal(t, -1, b.LayerAt(0, 0))
	assert.NoError(t, b.Validate())
}

func TestDecodeBoard_Errors(t *testing.T) {
	unknown := emptyRows()
	unknown[4] = ". . . . X . . . . . . . "
	short := emptyRows()
	short[1] = ". . . "

	cases := []struct {
		name string
		rows []string
	}{
		{"UnknownSymbol", unknown},
		{"ShortRow", short},
		{"MissingRow", emptyRows()[:8]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse.DecodeBoard(tc.rows, history.StandardTables())
			assert.ErrorIs(t, err, errs.ErrStructural)
		})
	}
}

func TestDecodePlayer(t *testing.T) {
	p, err := parse.DecodePlayer([]string{
		"Player 3 (random bot)",
		"$4200",
		"Tiles:14 107 0 255 255 255 ",
		"Stocks: 0 3 0 0 12 0 1 ",
		"Total value: $7350",
	})
	require.NoError(t, err)
	assert.Equal(t, "random bot", p.Name)
	assert.Equal(t, 4200, p.Cash)
	assert.Equal(t, []history.Tile{14, 107, 0, history.NoTile, history.NoTile, history.NoTile}, p.Tiles)
	assert.Equal(t, 7350, p.Value)
	for c, s := range p.Stocks {
		assert.Equal(t, history.Chain(c), s.Chain)
	}
	assert.Equal(t, 3, p.Stocks[history.Tower].Count)
	assert.Equal(t, 12, p.Stocks[history.Festival].Count)
}

func TestDecodePlayer_Errors(t *testing.T) {
	valid := []string{
		"Player 0 (a)",
		"$6000",
		"Tiles: 1 2 3 4 5 6",
		"Stocks: 0 0 0 0 0 0 0",
		"Total value: $6000",
	}
	with := func(i int, line string) []string {
		out := append([]string(nil), valid...)
		out[i] = line
		return out
	}

	cases := []struct {
		name  string
		lines []string
	}{
		{"ShortName", with(0, "Player 0")},
		{"BadCash", with(1, "$lots")},
		{"TileOutOfRange", with(2, "Tiles: 1 2 108")},
		{"TileNotNumber", with(2, "Tiles: 1 x")},
		{"SixStocks", with(3, "Stocks: 0 0 0 0 0 0")},
		{"NegativeStock", with(3, "Stocks: 0 0 0 -1 0 0 0")},
		{"NoDollar", with(4, "Total value: 6000")},
		{"FourLines", valid[:4]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse.DecodePlayer(tc.lines)
			assert.ErrorIs(t, err, errs.ErrStructural)
		})
	}
}

func TestDecodeAction_BaseOnly(t *testing.T) {
	a, err := parse.DecodeAction([]string{
		"TURN START",
		"handleTilePlayPhase: Player Number: 1",
		"handleTilePlayPhase: Playing tile: 42",
		"runGame: canEndGame: 0",
	}, parse.DefaultMarkers(), history.StandardTables())
	require.NoError(t, err)
	assert.Equal(t, 1, a.Player)
	assert.Equal(t, history.Tile(42), a.Tile)
	assert.Nil(t, a.Merge)
	assert.Nil(t, a.Create)
	assert.Nil(t, a.Share)
}

func TestDecodeAction_CreateWithoutBonus(t *testing.T) {
	a, err := parse.DecodeAction([]string{
		"handleTilePlayPhase: Player Number: 0",
		"handleTilePlayPhase: Playing tile: 3",
		"handleTilePlayCreate: Create chain: IMPERIAL",
	}, parse.DefaultMarkers(), history.StandardTables())
	require.NoError(t, err)
	require.NotNil(t, a.Create)
	assert.Equal(t, history.Imperial, a.Create.Chain)
	assert.False(t, a.Create.BonusShare)
}

func TestDecodeAction_MergeWithoutTrades(t *testing.T) {
	a, err := parse.DecodeAction([]string{
		"handleTilePlayPhase: Player Number: 2",
		"handleTilePlayPhase: Playing tile: 50",
		"handleTilePlayMerger: Merging Chains: WORLDWIDE",
		"handleTilePlayMerger: Surviving chain: CONTINENTAL",
	}, parse.DefaultMarkers(), history.StandardTables())
	require.NoError(t, err)
	require.NotNil(t, a.Merge)
	assert.Equal(t, []history.Chain{history.Worldwide}, a.Merge.Chains)
	assert.Equal(t, history.Continental, a.Merge.Survivor)
	assert.Empty(t, a.Merge.PlayerOrder)
	assert.Len(t, a.Merge.Sales, len(a.Merge.PlayerOrder))
	assert.Len(t, a.Merge.Trades, len(a.Merge.PlayerOrder))
}

func TestDecodeAction_MergeGroupCutShort(t *testing.T) {
	_, err := parse.DecodeAction([]string{
		"handleTilePlayPhase: Player Number: 2",
		"handleTilePlayPhase: Playing tile: 50",
		"handleTilePlayMerger: Merging Chains: WORLDWIDE",
		"handleTilePlayMerger: Surviving chain: CONTINENTAL",
		"Player Merge Actions: 3",
		"sell: 1",
	}, parse.DefaultMarkers(), history.StandardTables())
	assert.ErrorIs(t, err, errs.ErrStructural)
}

func TestDecodeAction_PlayedTileOutOfRange(t *testing.T) {
	_, err := parse.DecodeAction([]string{
		"handleTilePlayPhase: Player Number: 2",
		"handleTilePlayPhase: Playing tile: 255",
	}, parse.DefaultMarkers(), history.StandardTables())
	assert.ErrorIs(t, err, errs.ErrStructural)
}

func TestDecodeAction_PlayerMustBeASeat(t *testing.T) {
	for _, seat := range []string{"-1", "4", "17"} {
		t.Run(seat, func(t *testing.T) {
			_, err := parse.DecodeAction([]string{
				"handleTilePlayPhase: Player Number: " + seat,
				"handleTilePlayPhase: Playing tile: 12",
			}, parse.DefaultMarkers(), history.StandardTables())
			require.ErrorIs(t, err, errs.ErrStructural)

			var de *parse.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, parse.DefaultMarkers().PlayerNumber, de.Marker)
			assert.Equal(t, 0, de.Line)
		})
	}

	a, err := parse.DecodeAction([]string{
		"handleTilePlayPhase: Player Number: 3",
		"handleTilePlayPhase: Playing tile: 12",
	}, parse.DefaultMarkers(), history.StandardTables())
	require.NoError(t, err)
	assert.Equal(t, 3, a.Player)
}

func TestTokenize(t *testing.T) {
	m := parse.DefaultMarkers()
	lines := []string{"seat", "a", m.TurnStart, "b", "c", m.TurnStart, "d", m.EndOfGame, "e"}

	blocks, err := parse.Tokenize(lines, m)
	require.NoError(t, err)
	assert.Equal(t, parse.Block{Start: 0, Lines: []string{"seat", "a"}}, blocks.Header)
	require.Len(t, blocks.Turns, 2)
	assert.Equal(t, parse.Block{Start: 2, Lines: []string{m.TurnStart, "b", "c"}}, blocks.Turns[0])
	assert.Equal(t, parse.Block{Start: 5, Lines: []string{m.TurnStart, "d"}}, blocks.Turns[1])
	assert.Equal(t, parse.Block{Start: 7, Lines: []string{m.EndOfGame, "e"}}, blocks.Trailer)
}

func TestTokenize_MarkerMustMatchWholeLine(t *testing.T) {
	m := parse.DefaultMarkers()
	_, err := parse.Tokenize([]string{"seat", "  " + m.EndOfGame}, m)
	assert.ErrorIs(t, err, errs.ErrStructural)

	blocks, err := parse.Tokenize([]string{"seat", "log: TURN START", m.EndOfGame}, m)
	require.NoError(t, err)
	assert.Empty(t, blocks.Turns)
}

func TestDecodeState_FromWriter(t *testing.T) {
	s := fixtureState(map[history.Tile]history.Chain{0: history.Luxor, 107: history.Unconnected}, 1234)
	lines := stateLines(s)
	require.Len(t, lines, history.Rows+1+history.NumPlayers*parse.PlayerLines)

	b, err := parse.DecodeBoard(lines[:history.Rows], history.StandardTables())
	require.NoError(t, err)
	assert.Equal(t, s.Board, b)
}
