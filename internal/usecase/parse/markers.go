package parse

import (
	"fmt"
	"strings"

	errs "hale/internal/errors"
)

// Markers are the literal strings the simulator writes into its logs.
// TurnStart and EndOfGame must match a whole line; the rest are matched as
// substrings.
type Markers struct {
	TurnStart     string
	EndOfGame     string
	CanEndGame    string
	PlayerNumber  string
	PlayingTile   string
	Merger        string
	MergingChain  string
	SurvivorChain string
	PlayerMerge   string
	Create        string
	SharePurchase string
}

// DefaultMarkers matches the HALE simulator log format.
func DefaultMarkers() Markers {
	return Markers{
		TurnStart:     "TURN START",
		EndOfGame:     "runGame: END OF GAME",
		CanEndGame:    "canEndGame",
		PlayerNumber:  "Player Number",
		PlayingTile:   "Playing tile",
		Merger:        "handleTilePlayMerger",
		MergingChain:  "Merging Chains",
		SurvivorChain: "Surviving chain",
		PlayerMerge:   "Player Merge Actions:",
		Create:        "Create",
		SharePurchase: "SharePurchasePhase",
	}
}

// DecodeError describes where a log stopped matching the expected format.
// Line is a 0-based index into the log, or -1 when unknown.
type DecodeError struct {
	Region string
	Marker string
	Line   int
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Region != "" {
		b.WriteString(e.Region)
		b.WriteString(": ")
	}
	if e.Marker != "" {
		fmt.Fprintf(&b, "%q: ", e.Marker)
	}
	if e.Line >= 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line+1)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	return []error{errs.ErrStructural, e.Err}
}

func decodeErr(marker string, line int, format string, args ...any) *DecodeError {
	return &DecodeError{Marker: marker, Line: line, Err: fmt.Errorf(format, args...)}
}

// within attributes err to a region of the log whose first line is offset.
func within(err error, region string, offset int) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return &DecodeError{Region: region, Line: -1, Err: err}
	}
	cp := *de
	if cp.Region == "" {
		cp.Region = region
	} else {
		cp.Region = region + ": " + cp.Region
	}
	if cp.Line >= 0 {
		cp.Line += offset
	}
	return &cp
}

// lastField returns the text after the last ':' on line, trimmed.
func lastField(line string) string {
	if i := strings.LastIndexByte(line, ':'); i >= 0 {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}
