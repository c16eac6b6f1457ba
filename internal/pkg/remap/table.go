package remap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/holoplot/go-evdev"
)

var ErrNotBijective = errors.New("remap table is not bijective")

// Table is an immutable key code substitution, codes absent from the table map onto themselves.
type Table struct {
	pairs map[evdev.EvCode]evdev.EvCode
}

// New validates given substitutions, two inputs sharing one output are rejected
// as the relay could no longer tell them apart.
func New(pairs map[evdev.EvCode]evdev.EvCode) (Table, error) {
	var table = Table{pairs: make(map[evdev.EvCode]evdev.EvCode, len(pairs))}
	var images = make(map[evdev.EvCode]evdev.EvCode, len(pairs))

	for from, to := range pairs {
		if other, ok := images[to]; ok {
			return Table{}, fmt.Errorf("%w: %s and %s both map onto %s", ErrNotBijective,
				keyName(other), keyName(from), keyName(to))
		}
		images[to] = from
		table.pairs[from] = to
	}

	// every output not used as input keeps its identity, it would collide with the input mapped onto it
	for to, from := range images {
		if _, ok := table.pairs[to]; !ok && to != from {
			return Table{}, fmt.Errorf("%w: %s maps onto %s which is not remapped itself", ErrNotBijective,
				keyName(from), keyName(to))
		}
	}

	return table, nil
}

// Default swaps face buttons: East with South and North with C.
func Default() Table {
	table, err := New(map[evdev.EvCode]evdev.EvCode{
		evdev.BTN_EAST:  evdev.BTN_SOUTH,
		evdev.BTN_SOUTH: evdev.BTN_EAST,
		evdev.BTN_NORTH: evdev.BTN_C,
		evdev.BTN_C:     evdev.BTN_NORTH,
	})
	if err != nil {
		panic(err)
	}
	return table
}

// Remap returns the substituted key code
func (t Table) Remap(code evdev.EvCode) evdev.EvCode {
	if to, ok := t.pairs[code]; ok {
		return to
	}
	return code
}

// Apply remaps EV_KEY codes only, any other event type is returned unchanged.
func (t Table) Apply(evType evdev.EvType, code evdev.EvCode) evdev.EvCode {
	if evType != evdev.EV_KEY {
		return code
	}
	return t.Remap(code)
}

func (t Table) Len() int {
	return len(t.pairs)
}

// Pairs returns a copy of substitutions
func (t Table) Pairs() map[evdev.EvCode]evdev.EvCode {
	var pairs = make(map[evdev.EvCode]evdev.EvCode, len(t.pairs))
	for from, to := range t.pairs {
		pairs[from] = to
	}
	return pairs
}

func (t Table) String() string {
	var codes = make([]evdev.EvCode, 0, len(t.pairs))
	for code := range t.pairs {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var entries = make([]string, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, fmt.Sprintf("%s -> %s", keyName(code), keyName(t.pairs[code])))
	}
	return strings.Join(entries, ", ")
}

func keyName(code evdev.EvCode) string {
	return evdev.CodeName(evdev.EV_KEY, code)
}
