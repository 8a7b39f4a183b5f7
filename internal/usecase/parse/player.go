package parse

import (
	"strconv"
	"strings"

	"hale/internal/domain/history"
)

const (
	PlayerLines = 5
	// the name follows "Player N (" and is closed by ')'
	nameOffset = 10
)

// DecodePlayer reads one player block:
//
//	Player 0 (name)
//	$6000
//	Tiles: 14 27 255 ...
//	Stocks: 0 0 0 0 0 0 0
//	Total value: $6000
func DecodePlayer(lines []string) (history.Player, error) {
	var p history.Player
	if len(lines) != PlayerLines {
		return p, decodeErr("", -1, "player block needs %d lines, got %d", PlayerLines, len(lines))
	}

	nameLine := strings.TrimRight(lines[0], " \t")
	if len(nameLine) <= nameOffset {
		return p, decodeErr("", 0, "player name line too short: %q", lines[0])
	}
	p.Name = nameLine[nameOffset : len(nameLine)-1]

	cashLine := strings.TrimSpace(lines[1])
	if len(cashLine) < 2 {
		return p, decodeErr("", 1, "cash line too short: %q", lines[1])
	}
	cash, err := strconv.Atoi(cashLine[1:])
	if err != nil {
		return p, decodeErr("", 1, "cash: %w", err)
	}
	p.Cash = cash

	tileFields := labelledFields(lines[2])
	p.Tiles = make([]history.Tile, 0, len(tileFields))
	for _, f := range tileFields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return p, decodeErr("", 2, "tile: %w", err)
		}
		tile := history.Tile(v)
		if v < 0 || v > int(history.NoTile) || !tile.Valid() {
			return p, decodeErr("", 2, "tile %d out of range", v)
		}
		p.Tiles = append(p.Tiles, tile)
	}

	stockFields := labelledFields(lines[3])
	if len(stockFields) != history.NumChains {
		return p, decodeErr("", 3, "need %d stock counts, got %d", history.NumChains, len(stockFields))
	}
	for i, f := range stockFields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return p, decodeErr("", 3, "stock count for %s: %w", history.Chain(i), err)
		}
		if n < 0 {
			return p, decodeErr("", 3, "negative stock count %d for %s", n, history.Chain(i))
		}
		p.Stocks[i] = history.Stock{Chain: history.Chain(i), Count: n}
	}

	_, value, ok := strings.Cut(lines[4], "$")
	if !ok {
		return p, decodeErr("$", 4, "net worth not found: %q", lines[4])
	}
	p.Value, err = strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return p, decodeErr("$", 4, "net worth: %w", err)
	}
	return p, nil
}

// labelledFields drops the leading label of a "Label: v v v" line. The label
// ends at the first ':' or, without one, at the first space.
func labelledFields(line string) []string {
	if _, rest, ok := strings.Cut(line, ":"); ok {
		return strings.Fields(rest)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}
