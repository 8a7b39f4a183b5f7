package history

const NumPlayers = 4

type Player struct {
	Name   string           `json:"name" bson:"name"`
	Cash   int              `json:"cash" bson:"cash"`
	Tiles  []Tile           `json:"tiles" bson:"tiles"`
	Stocks [NumChains]Stock `json:"stocks" bson:"stocks"`
	Value  int              `json:"value" bson:"value"`
}

// GameState is the board plus every seat, in fixed seat order.
type GameState struct {
	Board   Board              `json:"board" bson:"board"`
	Players [NumPlayers]Player `json:"players" bson:"players"`
}

// MergeAction records a merger. PlayerOrder, Sales and Trades are parallel:
// entry i is what seat PlayerOrder[i] sold and traded of the defunct chains.
type MergeAction struct {
	Chains      []Chain `json:"chains" bson:"chains"`
	Survivor    Chain   `json:"survivor" bson:"survivor"`
	PlayerOrder []int   `json:"player_order" bson:"player_order"`
	Sales       []int   `json:"sales" bson:"sales"`
	Trades      []int   `json:"trades" bson:"trades"`
}

type CreateAction struct {
	Chain      Chain `json:"chain" bson:"chain"`
	BonusShare bool  `json:"bonus_share" bson:"bonus_share"`
}

type ShareAction struct {
	Purchases []Stock `json:"purchases" bson:"purchases"`
}

// Action is what one seat did on its turn. A nil Merge, Create or Share
// means the turn had no such phase.
type Action struct {
	Player int           `json:"player" bson:"player"`
	Tile   Tile          `json:"tile" bson:"tile"`
	Merge  *MergeAction  `json:"merge,omitempty" bson:"merge,omitempty"`
	Create *CreateAction `json:"create,omitempty" bson:"create,omitempty"`
	Share  *ShareAction  `json:"share,omitempty" bson:"share,omitempty"`
}

type Turn struct {
	Action Action    `json:"action" bson:"action"`
	State  GameState `json:"state" bson:"state"`
}

// GameHistory is one complete game as decoded from a simulator log.
type GameHistory struct {
	StartPlayer string    `json:"start_player" bson:"start_player"`
	Start       GameState `json:"start" bson:"start"`
	Turns       []Turn    `json:"turns" bson:"turns"`
	End         GameState `json:"end" bson:"end"`
	Winner      int       `json:"winner" bson:"winner"`
	Value       int       `json:"value" bson:"value"`
}

func (p Player) Clone() Player {
	p.Tiles = cloneSlice(p.Tiles)
	return p
}

func (s GameState) Clone() GameState {
	for i := range s.Players {
		s.Players[i] = s.Players[i].Clone()
	}
	return s
}

func (m *MergeAction) Clone() *MergeAction {
	if m == nil {
		return nil
	}
	return &MergeAction{
		Chains:      cloneSlice(m.Chains),
		Survivor:    m.Survivor,
		PlayerOrder: cloneSlice(m.PlayerOrder),
		Sales:       cloneSlice(m.Sales),
		Trades:      cloneSlice(m.Trades),
	}
}

func (c *CreateAction) Clone() *CreateAction {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (s *ShareAction) Clone() *ShareAction {
	if s == nil {
		return nil
	}
	return &ShareAction{Purchases: cloneSlice(s.Purchases)}
}

func (a Action) Clone() Action {
	a.Merge = a.Merge.Clone()
	a.Create = a.Create.Clone()
	a.Share = a.Share.Clone()
	return a
}

func (t Turn) Clone() Turn {
	return Turn{Action: t.Action.Clone(), State: t.State.Clone()}
}

// Clone returns a deep copy sharing no mutable state with h.
func (h *GameHistory) Clone() *GameHistory {
	if h == nil {
		return nil
	}
	cp := *h
	cp.Start = h.Start.Clone()
	cp.End = h.End.Clone()
	if h.Turns != nil {
		cp.Turns = make([]Turn, len(h.Turns))
		for i := range h.Turns {
			cp.Turns[i] = h.Turns[i].Clone()
		}
	}
	return &cp
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
