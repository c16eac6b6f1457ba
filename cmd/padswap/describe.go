package main

import (
	"fmt"
	"io"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/relay"
	"github.com/gethiox/padswap/internal/pkg/uinput"
	"github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

type describedSource interface {
	relay.Source
	Name() string
	ID() input.InputID
}

// dryRegistrar accepts every declaration, used to compute a descriptor without uinput
type dryRegistrar struct{}

func (dryRegistrar) EnableType(evdev.EvType) error               { return nil }
func (dryRegistrar) EnableCode(evdev.EvType, evdev.EvCode) error { return nil }

type axisDoc struct {
	Code string `yaml:"code"`
	Min  int32  `yaml:"min"`
	Max  int32  `yaml:"max"`
	Fuzz int32  `yaml:"fuzz,omitempty"`
	Flat int32  `yaml:"flat,omitempty"`
}

type capabilitiesDoc struct {
	Keys  []string            `yaml:"keys,omitempty"`
	Axes  []axisDoc           `yaml:"axes,omitempty"`
	Other map[string][]string `yaml:"other,omitempty"`
}

type deviceDoc struct {
	Name         string          `yaml:"name"`
	Path         string          `yaml:"path,omitempty"`
	ID           string          `yaml:"id"`
	Capabilities capabilitiesDoc `yaml:"capabilities"`
}

type descriptionDoc struct {
	Source  deviceDoc         `yaml:"source"`
	Virtual deviceDoc         `yaml:"virtual"`
	Scope   string            `yaml:"scope"`
	Remap   map[string]string `yaml:"remap"`
}

func describeCapabilities(caps input.Capabilities) capabilitiesDoc {
	var doc capabilitiesDoc

	for _, t := range caps.Types() {
		switch t {
		case evdev.EV_KEY:
			for _, code := range caps.Codes(t) {
				doc.Keys = append(doc.Keys, evdev.CodeName(t, code))
			}
		case evdev.EV_ABS:
			for _, code := range caps.Codes(t) {
				info, _ := caps.Axis(code)
				doc.Axes = append(doc.Axes, axisDoc{
					Code: evdev.CodeName(t, code),
					Min:  info.Minimum,
					Max:  info.Maximum,
					Fuzz: info.Fuzz,
					Flat: info.Flat,
				})
			}
		default:
			if doc.Other == nil {
				doc.Other = make(map[string][]string)
			}
			var names = make([]string, 0)
			for _, code := range caps.Codes(t) {
				names = append(names, evdev.CodeName(t, code))
			}
			doc.Other[evdev.TypeName(t)] = names
		}
	}
	return doc
}

// describe prints what would be mirrored from the source, uinput is not touched
func describe(w io.Writer, src describedSource, path string, cfg relay.Config) error {
	caps, err := src.Capabilities()
	if err != nil {
		return &relay.DeviceError{Op: relay.OpQuery, Err: err}
	}

	desc, err := relay.Mirror(src, dryRegistrar{}, cfg)
	if err != nil {
		return err
	}

	doc := descriptionDoc{
		Source: deviceDoc{
			Name:         src.Name(),
			Path:         path,
			ID:           src.ID().String(),
			Capabilities: describeCapabilities(caps),
		},
		Virtual: describeDescriptor(desc),
		Scope:   cfg.Scope.String(),
		Remap:   make(map[string]string, cfg.Table.Len()),
	}
	for from, to := range cfg.Table.Pairs() {
		doc.Remap[evdev.CodeName(evdev.EV_KEY, from)] = evdev.CodeName(evdev.EV_KEY, to)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding description failed: %w", err)
	}
	return enc.Close()
}

func describeDescriptor(desc uinput.Descriptor) deviceDoc {
	return deviceDoc{
		Name:         desc.Name,
		ID:           desc.ID.String(),
		Capabilities: describeCapabilities(desc.Capabilities),
	}
}
