package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/relay"
	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

type staticSource struct {
	caps input.Capabilities
	err  error
}

func (s *staticSource) Capabilities() (input.Capabilities, error) { return s.caps, s.err }
func (s *staticSource) ReadEvent() (*evdev.InputEvent, error)     { return nil, input.ErrDeviceGone }
func (s *staticSource) Grab() error                               { return nil }
func (s *staticSource) Ungrab() error                             { return nil }
func (s *staticSource) Close() error                              { return nil }
func (s *staticSource) Name() string                              { return "Pro Controller" }
func (s *staticSource) ID() input.InputID {
	return input.InputID{Bus: 0x5, Vendor: 0x57e, Product: 0x2009, Version: 0x8111}
}

func padCapabilities() input.Capabilities {
	caps := make(input.Capabilities)
	for _, code := range []evdev.EvCode{evdev.BTN_SOUTH, evdev.BTN_EAST, evdev.BTN_C, evdev.BTN_NORTH, evdev.BTN_START} {
		caps.Add(evdev.EV_KEY, code, nil)
	}
	caps.Add(evdev.EV_ABS, evdev.ABS_X, &input.AbsInfo{Minimum: -32768, Maximum: 32767, Fuzz: 250, Flat: 500, Resolution: 12})
	caps.Add(evdev.EV_MSC, evdev.MSC_SCAN, nil)
	return caps
}

func TestDescribe(t *testing.T) {
	src := &staticSource{caps: padCapabilities()}
	cfg := relay.DefaultConfig()

	var buf bytes.Buffer
	err := describe(&buf, src, "/dev/input/event17", cfg)
	assert.Equal(t, nil, err)

	var doc descriptionDoc
	err = yaml.Unmarshal(buf.Bytes(), &doc)
	assert.Equal(t, nil, err)

	assert.Equal(t, "Pro Controller", doc.Source.Name)
	assert.Equal(t, "/dev/input/event17", doc.Source.Path)
	assert.Equal(t, "0x0005 0x057e 0x2009 0x8111", doc.Source.ID)
	assert.Equal(t, 5, len(doc.Source.Capabilities.Keys))
	assert.Equal(t, []string{evdev.CodeName(evdev.EV_MSC, evdev.MSC_SCAN)},
		doc.Source.Capabilities.Other[evdev.TypeName(evdev.EV_MSC)])

	assert.Equal(t, "Nintendo-XInput", doc.Virtual.Name)
	assert.Equal(t, "", doc.Virtual.Path)
	assert.Equal(t, doc.Source.Capabilities.Keys, doc.Virtual.Capabilities.Keys)
	assert.Equal(t, []axisDoc{{Code: evdev.CodeName(evdev.EV_ABS, evdev.ABS_X), Min: -32768, Max: 32767, Fuzz: 250, Flat: 500}},
		doc.Virtual.Capabilities.Axes)
	assert.Equal(t, 0, len(doc.Virtual.Capabilities.Other))

	assert.Equal(t, "key-and-axis", doc.Scope)
	assert.Equal(t, 4, len(doc.Remap))
	assert.Equal(t, evdev.CodeName(evdev.EV_KEY, evdev.BTN_SOUTH), doc.Remap[evdev.CodeName(evdev.EV_KEY, evdev.BTN_EAST)])
}

func TestDescribeKeysOnly(t *testing.T) {
	src := &staticSource{caps: padCapabilities()}
	cfg := options{keysOnly: true}.config()

	var buf bytes.Buffer
	err := describe(&buf, src, "/dev/input/event17", cfg)
	assert.Equal(t, nil, err)

	var doc descriptionDoc
	assert.Equal(t, nil, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, len(doc.Source.Capabilities.Axes))
	assert.Equal(t, 0, len(doc.Virtual.Capabilities.Axes))
	assert.Equal(t, "key-only", doc.Scope)
}

func TestDescribeQueryFailure(t *testing.T) {
	src := &staticSource{err: errors.New("inappropriate ioctl for device")}

	var buf bytes.Buffer
	err := describe(&buf, src, "/dev/input/event17", relay.DefaultConfig())
	assert.Equal(t, relay.OpQuery, relay.FailedOp(err))
	assert.Equal(t, 0, buf.Len())
}
