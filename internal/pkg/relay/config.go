package relay

import (
	"fmt"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/remap"
	"github.com/holoplot/go-evdev"
)

// Scope narrows the set of mirrored and relayed event types
type Scope int

const (
	KeyAndAxis Scope = iota
	KeyOnly
)

func (s Scope) Types() []evdev.EvType {
	switch s {
	case KeyOnly:
		return []evdev.EvType{evdev.EV_KEY}
	default:
		return []evdev.EvType{evdev.EV_KEY, evdev.EV_ABS}
	}
}

func (s Scope) String() string {
	switch s {
	case KeyOnly:
		return "key-only"
	case KeyAndAxis:
		return "key-and-axis"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Identity is presented by the virtual device instead of the source one,
// so client software can tell them apart.
type Identity struct {
	Name string
	ID   input.InputID
}

func DefaultIdentity() Identity {
	return Identity{
		Name: "Nintendo-XInput",
		ID: input.InputID{
			Bus:     evdev.BUS_USB,
			Vendor:  0x1,
			Product: 0x1,
			Version: 1,
		},
	}
}

// Config is assembled once at startup and never modified afterwards
type Config struct {
	Scope    Scope
	Identity Identity
	Table    remap.Table
	Grab     bool
}

func DefaultConfig() Config {
	return Config{
		Scope:    KeyAndAxis,
		Identity: DefaultIdentity(),
		Table:    remap.Default(),
	}
}
