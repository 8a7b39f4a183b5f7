package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hale/internal/domain/history"
)

const (
	// board rows, one separator line, then the player blocks
	stateLines   = history.Rows + 1 + history.NumPlayers*PlayerLines
	seatFields   = 3
	maxLineBytes = 1 << 20
)

type Parser struct {
	markers Markers
	tables  *history.Tables
}

func NewParser(markers Markers, tables *history.Tables) *Parser {
	return &Parser{markers: markers, tables: tables}
}

// NewDefaultParser parses HALE logs using sharePurchaseMarker to find share
// purchase lines; an empty marker keeps the default.
func NewDefaultParser(sharePurchaseMarker string) *Parser {
	m := DefaultMarkers()
	if sharePurchaseMarker != "" {
		m.SharePurchase = sharePurchaseMarker
	}
	return NewParser(m, history.StandardTables())
}

func (p *Parser) Markers() Markers { return p.markers }

func (p *Parser) Tables() *history.Tables { return p.tables }

// Parse reads a whole log from r.
func (p *Parser) Parse(r io.Reader) (*history.GameHistory, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return p.ParseLines(lines)
}

func (p *Parser) ParseString(log string) (*history.GameHistory, error) {
	return p.Parse(strings.NewReader(log))
}

// ParseLines builds a GameHistory from the lines of one log. No partial
// history is returned on error.
func (p *Parser) ParseLines(lines []string) (*history.GameHistory, error) {
	blocks, err := Tokenize(lines, p.markers)
	if err != nil {
		return nil, within(err, "log", 0)
	}

	h := &history.GameHistory{}

	h.StartPlayer, h.Start, err = p.decodeHeader(blocks.Header.Lines)
	if err != nil {
		return nil, within(err, "header", blocks.Header.Start)
	}

	h.Turns = make([]history.Turn, 0, len(blocks.Turns))
	for i, block := range blocks.Turns {
		turn, err := p.decodeTurn(block.Lines)
		if err != nil {
			return nil, within(err, "turn "+strconv.Itoa(i), block.Start)
		}
		h.Turns = append(h.Turns, turn)
	}

	h.Winner, h.Value, h.End, err = p.decodeTrailer(blocks.Trailer.Lines)
	if err != nil {
		return nil, within(err, "trailer", blocks.Trailer.Start)
	}
	return h, nil
}

func (p *Parser) decodeHeader(lines []string) (string, history.GameState, error) {
	if len(lines) == 0 {
		return "", history.GameState{}, decodeErr("", -1, "seat marker line missing")
	}
	fields := strings.Split(lines[0], ":")
	if len(fields) < seatFields {
		return "", history.GameState{}, decodeErr("", 0, "seat marker needs %d ':' separated fields: %q", seatFields, lines[0])
	}
	state, err := p.decodeState(lines[1:])
	if err != nil {
		return "", state, within(err, "start state", 1)
	}
	return strings.TrimSpace(fields[2]), state, nil
}

func (p *Parser) decodeTurn(lines []string) (history.Turn, error) {
	var turn history.Turn
	split := -1
	for i, line := range lines {
		if strings.Contains(line, p.markers.CanEndGame) {
			split = i + 1
			break
		}
	}
	if split < 0 {
		return turn, decodeErr(p.markers.CanEndGame, -1, "marker not found")
	}

	action, err := DecodeAction(lines[:split], p.markers, p.tables)
	if err != nil {
		return turn, within(err, "action", 0)
	}
	state, err := p.decodeState(lines[split:])
	if err != nil {
		return turn, within(err, "state", split)
	}
	return history.Turn{Action: action, State: state}, nil
}

func (p *Parser) decodeTrailer(lines []string) (int, int, history.GameState, error) {
	var state history.GameState
	if len(lines) < 3 {
		return 0, 0, state, decodeErr("", -1, "winner and value lines missing")
	}
	winner, err := strconv.Atoi(lastField(lines[1]))
	if err != nil {
		return 0, 0, state, decodeErr("winner", 1, "%w", err)
	}
	if winner < 0 || winner >= history.NumPlayers {
		return 0, 0, state, decodeErr("winner", 1, "winner %d is not a seat", winner)
	}
	value, err := strconv.Atoi(lastField(lines[2]))
	if err != nil {
		return 0, 0, state, decodeErr("value", 2, "%w", err)
	}
	state, err = p.decodeState(lines[3:])
	if err != nil {
		return 0, 0, state, within(err, "end state", 3)
	}
	return winner, value, state, nil
}

// decodeState reads a board and the four player blocks. Lines past the last
// player block are ignored.
func (p *Parser) decodeState(lines []string) (history.GameState, error) {
	var state history.GameState
	if len(lines) < stateLines {
		return state, decodeErr("", -1, "state needs %d lines, got %d", stateLines, len(lines))
	}

	board, err := DecodeBoard(lines[:history.Rows], p.tables)
	if err != nil {
		return state, within(err, "board", 0)
	}
	state.Board = board

	start := history.Rows + 1
	for i := 0; i < history.NumPlayers; i++ {
		player, err := DecodePlayer(lines[start : start+PlayerLines])
		if err != nil {
			return state, within(err, "player "+strconv.Itoa(i), start)
		}
		state.Players[i] = player
		start += PlayerLines
	}
	return state, nil
}
