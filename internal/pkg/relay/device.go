package relay

import (
	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/uinput"
	"github.com/holoplot/go-evdev"
)

// Source is a physical device events are read from, implemented by input.Device
type Source interface {
	Capabilities() (input.Capabilities, error)
	ReadEvent() (*evdev.InputEvent, error)
	Grab() error
	Ungrab() error
	Close() error
}

// Registrar accepts capability declarations before the virtual device is committed
type Registrar interface {
	EnableType(t evdev.EvType) error
	EnableCode(t evdev.EvType, code evdev.EvCode) error
}

// Sink is a virtual device events are written to, implemented by uinput.Device
type Sink interface {
	Registrar
	Commit(desc uinput.Descriptor) error
	Activate() error
	WriteEvent(ev *evdev.InputEvent) error
	Deactivate() error
	Close() error
}

type SourceOpener func(path string) (Source, error)

type SinkOpener func() (Sink, error)

// OpenSource opens physical event device
func OpenSource(path string) (Source, error) {
	d, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// OpenSink opens uinput handler
func OpenSink() (Sink, error) {
	d, err := uinput.Open()
	if err != nil {
		return nil, err
	}
	return d, nil
}
