package relay

import (
	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/gethiox/padswap/internal/pkg/uinput"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

// Mirror declares on the sink every code of the source within configured scope,
// together with remapped images of key codes. Returned descriptor is ready to be committed.
func Mirror(src Source, sink Registrar, cfg Config) (uinput.Descriptor, error) {
	caps, err := src.Capabilities()
	if err != nil {
		return uinput.Descriptor{}, &DeviceError{Op: OpQuery, Err: err}
	}

	var desc = uinput.Descriptor{
		Name:         cfg.Identity.Name,
		ID:           cfg.Identity.ID,
		Capabilities: make(input.Capabilities),
	}

	register := func(t evdev.EvType, code evdev.EvCode, info *input.AbsInfo) error {
		err := sink.EnableCode(t, code)
		if err != nil {
			return &DeviceError{Op: OpRegister, Err: err}
		}
		desc.Capabilities.Add(t, code, info)
		return nil
	}

	for _, t := range cfg.Scope.Types() {
		if !caps.Has(t) {
			log.Info("Event type not supported by the source, skipping", zap.String("type", evdev.TypeName(t)), logger.Debug)
			continue
		}

		err := sink.EnableType(t)
		if err != nil {
			return uinput.Descriptor{}, &DeviceError{Op: OpRegister, Err: err}
		}
		desc.Capabilities.AddType(t)

		maxCode, _ := input.MaxCode(t)
		for code := evdev.EvCode(0); code <= maxCode; code++ {
			if !caps.HasCode(t, code) || desc.Declares(t, code) {
				continue
			}

			switch t {
			case evdev.EV_ABS:
				axis, _ := caps.Axis(code)
				info := &input.AbsInfo{Minimum: axis.Minimum, Maximum: axis.Maximum}
				if axis.Fuzz != 0 {
					info.Fuzz = axis.Fuzz
				}
				if axis.Flat != 0 {
					info.Flat = axis.Flat
				}
				err = register(t, code, info)
			default:
				err = register(t, code, nil)
			}
			if err != nil {
				return uinput.Descriptor{}, err
			}

			if t != evdev.EV_KEY {
				continue
			}
			image := cfg.Table.Remap(code)
			if caps.HasCode(t, image) || desc.Declares(t, image) {
				continue
			}
			err = register(t, image, nil)
			if err != nil {
				return uinput.Descriptor{}, err
			}
			log.Info("Declared remapped key missing in the source", zap.String("code", evdev.CodeName(t, image)), logger.Debug)
		}

		log.Info("Event type mirrored",
			zap.String("type", evdev.TypeName(t)),
			zap.Int("codes", len(desc.Capabilities[t])),
			logger.Debug,
		)
	}

	return desc, nil
}
