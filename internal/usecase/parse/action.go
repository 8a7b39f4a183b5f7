package parse

import (
	"strconv"
	"strings"

	"hale/internal/domain/history"
)

// mergeGroupLines is the player, sold and traded lines that follow each
// player merge marker.
const mergeGroupLines = 3

// DecodeAction reads the action lines of a turn, everything up to and
// including the canEndGame line. Merge, Create and Share stay nil when the
// turn has no lines for them.
func DecodeAction(lines []string, m Markers, t *history.Tables) (history.Action, error) {
	var (
		a   history.Action
		err error
	)

	var at int
	a.Player, at, err = markedInt(lines, m.PlayerNumber)
	if err != nil {
		return a, err
	}
	if a.Player < 0 || a.Player >= history.NumPlayers {
		return a, decodeErr(m.PlayerNumber, at, "player %d is not a seat", a.Player)
	}
	tile, at, err := markedInt(lines, m.PlayingTile)
	if err != nil {
		return a, err
	}
	if tile < 0 || tile >= history.NumTiles {
		return a, decodeErr(m.PlayingTile, at, "tile %d out of range", tile)
	}
	a.Tile = history.Tile(tile)

	if a.Merge, err = decodeMerge(lines, m, t); err != nil {
		return a, err
	}
	if a.Create, err = decodeCreate(lines, m, t); err != nil {
		return a, err
	}
	if a.Share, err = decodeShare(lines, m, t); err != nil {
		return a, err
	}
	return a, nil
}

// markedInt returns the integer after the last ':' of the first line
// containing marker, and the index of that line.
func markedInt(lines []string, marker string) (int, int, error) {
	for i, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		v, err := strconv.Atoi(lastField(line))
		if err != nil {
			return 0, i, decodeErr(marker, i, "%w", err)
		}
		return v, i, nil
	}
	return 0, -1, decodeErr(marker, -1, "marker not found")
}

func decodeMerge(lines []string, m Markers, t *history.Tables) (*history.MergeAction, error) {
	merge := &history.MergeAction{}
	found, survivor := false, false
	for i, line := range lines {
		if !strings.Contains(line, m.Merger) {
			continue
		}
		found = true
		if strings.Contains(line, m.MergingChain) {
			c, err := chainField(line, i, m.MergingChain, t)
			if err != nil {
				return nil, err
			}
			merge.Chains = append(merge.Chains, c)
		}
		if strings.Contains(line, m.SurvivorChain) {
			c, err := chainField(line, i, m.SurvivorChain, t)
			if err != nil {
				return nil, err
			}
			merge.Survivor = c
			survivor = true
		}
	}
	if !found {
		return nil, nil
	}
	if !survivor {
		return nil, decodeErr(m.SurvivorChain, -1, "merger without a surviving chain")
	}

	merge.PlayerOrder = []int{}
	merge.Sales = []int{}
	merge.Trades = []int{}
	for i, line := range lines {
		if !strings.Contains(line, m.PlayerMerge) {
			continue
		}
		if i+mergeGroupLines > len(lines) {
			return nil, decodeErr(m.PlayerMerge, i, "merge action cut short")
		}
		var group [mergeGroupLines]int
		for j := range group {
			v, err := strconv.Atoi(lastField(lines[i+j]))
			if err != nil {
				return nil, decodeErr(m.PlayerMerge, i+j, "%w", err)
			}
			group[j] = v
		}
		merge.PlayerOrder = append(merge.PlayerOrder, group[0])
		merge.Sales = append(merge.Sales, group[1])
		merge.Trades = append(merge.Trades, group[2])
	}
	return merge, nil
}

func decodeCreate(lines []string, m Markers, t *history.Tables) (*history.CreateAction, error) {
	var create *history.CreateAction
	for i, line := range lines {
		if !strings.Contains(line, m.Create) {
			continue
		}
		if create != nil {
			// a second line is the founder's free share
			create.BonusShare = true
			continue
		}
		c, err := chainField(line, i, m.Create, t)
		if err != nil {
			return nil, err
		}
		create = &history.CreateAction{Chain: c}
	}
	return create, nil
}

func decodeShare(lines []string, m Markers, t *history.Tables) (*history.ShareAction, error) {
	var share *history.ShareAction
	for i, line := range lines {
		if !strings.Contains(line, m.SharePurchase) {
			continue
		}
		tokens := strings.Split(line, ":")
		if len(tokens) < 3 {
			return nil, decodeErr(m.SharePurchase, i, "want <marker>:<chain>:<count>, got %q", line)
		}
		name := strings.TrimSpace(tokens[1])
		c, ok := t.ChainByName(name)
		if !ok || c == history.Unconnected {
			return nil, decodeErr(m.SharePurchase, i, "unknown chain %q", name)
		}
		n, err := strconv.Atoi(strings.TrimSpace(tokens[2]))
		if err != nil {
			return nil, decodeErr(m.SharePurchase, i, "share count: %w", err)
		}
		if share == nil {
			share = &history.ShareAction{}
		}
		share.Purchases = append(share.Purchases, history.Stock{Chain: c, Count: n})
	}
	return share, nil
}

func chainField(line string, i int, marker string, t *history.Tables) (history.Chain, error) {
	name := lastField(line)
	c, ok := t.ChainByName(name)
	if !ok || c == history.Unconnected {
		return 0, decodeErr(marker, i, "unknown chain %q", name)
	}
	return c, nil
}
