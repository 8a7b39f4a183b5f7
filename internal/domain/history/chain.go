package history

import "strconv"

// Chain identifies one of the seven hotel chains. Unconnected marks a cell
// or reference that belongs to no chain and is never relabelled.
type Chain uint8

const (
	Luxor Chain = iota
	Tower
	Worldwide
	American
	Festival
	Imperial
	Continental
	Unconnected
)

// NumChains is the number of real chains, Unconnected excluded.
const NumChains = 7

var chainNames = [...]string{
	"LUXOR", "TOWER", "WORLDWIDE", "AMERICAN", "FESTIVAL", "IMPERIAL", "CONTINENTAL", "UNCONNECTED",
}

func (c Chain) Valid() bool {
	return c <= Unconnected
}

func (c Chain) String() string {
	if !c.Valid() {
		return "Chain(" + strconv.Itoa(int(c)) + ")"
	}
	return chainNames[c]
}

// Stock is a share count held in (or bought from) a chain.
type Stock struct {
	Chain Chain `json:"chain" bson:"chain"`
	Count int   `json:"count" bson:"count"`
}

func (c Chain) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(c), 10), nil
}
