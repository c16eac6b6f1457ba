package relay

import (
	"errors"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/gethiox/padswap/internal/pkg/uinput"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// SyncMarker closes a single input frame
func SyncMarker() *evdev.InputEvent {
	return &evdev.InputEvent{
		Type:  evdev.EV_SYN,
		Code:  evdev.SYN_REPORT,
		Value: 0,
	}
}

type Stats struct {
	Read     uint64 // events successfully read from the source
	Relayed  uint64 // events written to the sink
	Remapped uint64 // relayed events with substituted code
	Ignored  uint64 // events of types not declared on the sink
}

// Loop relays events from Source to Sink until the source disappears
type Loop struct {
	Source     Source
	Sink       Sink
	Config     Config
	Descriptor uinput.Descriptor

	Stats Stats
}

// Run blocks on the source, every relayed event is immediately followed by SyncMarker.
// Returns nil when the source is gone, *DeviceError on read or write failure.
func (l *Loop) Run() error {
	for {
		ev, err := l.Source.ReadEvent()
		if err != nil {
			switch {
			case errors.Is(err, input.ErrDeviceGone):
				log.Info("Source device disconnected", zap.Error(err), logger.Info)
				l.logStats()
				return nil
			case errors.Is(err, input.ErrTransient):
				continue
			}
			l.logStats()
			return &DeviceError{Op: OpRead, Err: err}
		}
		l.Stats.Read++

		code := l.Config.Table.Apply(ev.Type, ev.Code)
		if !l.Descriptor.Declares(ev.Type, code) {
			l.Stats.Ignored++
			continue
		}

		out := *ev
		out.Code = code

		err = l.Sink.WriteEvent(&out)
		if err != nil {
			l.logStats()
			return &DeviceError{Op: OpWrite, Err: err}
		}
		err = l.Sink.WriteEvent(SyncMarker())
		if err != nil {
			l.logStats()
			return &DeviceError{Op: OpWrite, Err: err}
		}

		l.Stats.Relayed++
		if code != ev.Code {
			l.Stats.Remapped++
		}

		log.Info("Event relayed",
			zap.String("type", evdev.TypeName(ev.Type)),
			zap.String("code", evdev.CodeName(ev.Type, ev.Code)),
			zap.String("relayed_code", evdev.CodeName(out.Type, out.Code)),
			zap.Int32("value", ev.Value),
			logger.Events,
		)
	}
}

func (l *Loop) logStats() {
	log.Info("Relay stopped",
		zap.Uint64("read", l.Stats.Read),
		zap.Uint64("relayed", l.Stats.Relayed),
		zap.Uint64("remapped", l.Stats.Remapped),
		zap.Uint64("ignored", l.Stats.Ignored),
		logger.Debug,
	)
}
