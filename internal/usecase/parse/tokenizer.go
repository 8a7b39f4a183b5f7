package parse

// Block is a contiguous run of log lines. Start is the index of the first
// line in the whole log.
type Block struct {
	Start int
	Lines []string
}

// Blocks is a log split into its header, turns and trailer.
type Blocks struct {
	Header  Block
	Turns   []Block
	Trailer Block
}

// Tokenize splits a log on the turn-start and end-of-game marker lines.
// The end-of-game marker is required; zero turns is valid.
func Tokenize(lines []string, m Markers) (Blocks, error) {
	var starts []int
	end := -1
	for i, line := range lines {
		switch line {
		case m.TurnStart:
			if end >= 0 {
				return Blocks{}, decodeErr(m.TurnStart, i, "turn starts after the end of game")
			}
			starts = append(starts, i)
		case m.EndOfGame:
			if end >= 0 {
				return Blocks{}, decodeErr(m.EndOfGame, i, "second end of game marker, first at line %d", end+1)
			}
			end = i
		}
	}
	if end < 0 {
		return Blocks{}, decodeErr(m.EndOfGame, -1, "end of game marker not found")
	}

	bounds := append(starts, end)

	blocks := Blocks{
		Header:  Block{Start: 0, Lines: lines[:bounds[0]]},
		Turns:   make([]Block, 0, len(starts)),
		Trailer: Block{Start: end, Lines: lines[end:]},
	}
	for i := 0; i < len(bounds)-1; i++ {
		blocks.Turns = append(blocks.Turns, Block{Start: bounds[i], Lines: lines[bounds[i]:bounds[i+1]]})
	}
	return blocks, nil
}
