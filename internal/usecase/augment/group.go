package augment

import (
	"fmt"
	"strings"

	"hale/internal/domain/history"
)

// Chains in one class are interchangeable: the two cheap chains, the three
// mid-priced chains and the two expensive chains.
var chainClasses = [][]history.Chain{
	{history.Luxor, history.Tower},
	{history.Worldwide, history.American, history.Festival},
	{history.Imperial, history.Continental},
}

// GroupOrder is 2! * 3! * 2! label permutations times 4 reflections.
const GroupOrder = 2 * 6 * 2 * 4

// Transform is one element of the symmetry group: a relabelling of the
// chains (chain c becomes Perm[c], Unconnected fixed) followed by optional
// mirroring of the columns and rows.
type Transform struct {
	Perm       [history.NumLayers]history.Chain `json:"perm" bson:"perm"`
	Horizontal bool                             `json:"horizontal" bson:"horizontal"`
	Vertical   bool                             `json:"vertical" bson:"vertical"`
}

func Identity() Transform {
	var t Transform
	for i := range t.Perm {
		t.Perm[i] = history.Chain(i)
	}
	return t
}

// Group lists every transform in a fixed order; element 0 is the identity.
func Group() []Transform {
	perms := [][]history.Chain{{}}
	for _, class := range chainClasses {
		var next [][]history.Chain
		for _, prefix := range perms {
			for _, p := range permutations(class) {
				next = append(next, append(append([]history.Chain{}, prefix...), p...))
			}
		}
		perms = next
	}

	group := make([]Transform, 0, GroupOrder)
	for _, perm := range perms {
		for _, horizontal := range []bool{false, true} {
			for _, vertical := range []bool{false, true} {
				t := Transform{Horizontal: horizontal, Vertical: vertical}
				copy(t.Perm[:], perm)
				t.Perm[history.Unconnected] = history.Unconnected
				group = append(group, t)
			}
		}
	}
	return group
}

// permutations returns every ordering of s in lexicographic order of
// positions, so the identity ordering comes first.
func permutations(s []history.Chain) [][]history.Chain {
	if len(s) <= 1 {
		return [][]history.Chain{append([]history.Chain{}, s...)}
	}
	var out [][]history.Chain
	for i := range s {
		rest := make([]history.Chain, 0, len(s)-1)
		rest = append(rest, s[:i]...)
		rest = append(rest, s[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]history.Chain{s[i]}, p...))
		}
	}
	return out
}

func (t Transform) Chain(c history.Chain) history.Chain {
	if c >= history.NumLayers {
		return c
	}
	return t.Perm[c]
}

func (t Transform) Tile(tile history.Tile, tables *history.Tables) history.Tile {
	return tables.Reflect(tile, t.Horizontal, t.Vertical)
}

// Inverse returns the transform that undoes t. Reflections are their own
// inverse and commute with relabelling.
func (t Transform) Inverse() Transform {
	inv := Transform{Horizontal: t.Horizontal, Vertical: t.Vertical}
	for c, to := range t.Perm {
		inv.Perm[to] = history.Chain(c)
	}
	return inv
}

func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Valid reports whether Perm is a bijection on the real chains that keeps
// Unconnected in place.
func (t Transform) Valid() bool {
	if t.Perm[history.Unconnected] != history.Unconnected {
		return false
	}
	var seen [history.NumLayers]bool
	for _, c := range t.Perm[:history.NumChains] {
		if c >= history.NumChains || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

func (t Transform) String() string {
	ids := make([]string, history.NumChains)
	for i, c := range t.Perm[:history.NumChains] {
		ids[i] = fmt.Sprint(uint8(c))
	}
	return fmt.Sprintf("perm=[%s] h=%t v=%t", strings.Join(ids, ","), t.Horizontal, t.Vertical)
}
