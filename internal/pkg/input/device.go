package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var (
	// ErrDeviceGone is returned by ReadEvent when the device has been disconnected.
	ErrDeviceGone = errors.New("device no longer exists")
	// ErrTransient is returned by ReadEvent when no event could be read at the moment,
	// the read can be simply repeated.
	ErrTransient = errors.New("no event available")
)

// Device is an opened physical input device handler
type Device struct {
	dev  *evdev.InputDevice
	path string
	name string
	id   InputID
}

// Open opens event handler (eg. /dev/input/event7) for reading
func Open(path string) (*Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening \"%s\" failed: %w", path, err)
	}

	name, err := dev.Name()
	if err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("reading name of \"%s\" failed: %w", path, err)
	}

	id, err := dev.InputID()
	if err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("reading id of \"%s\" failed: %w", path, err)
	}

	d := &Device{
		dev:  dev,
		path: path,
		name: strings.Trim(name, "\x00"),
		id: InputID{
			Bus:     id.BusType,
			Vendor:  id.Vendor,
			Product: id.Product,
			Version: id.Version,
		},
	}
	log.Info("Device opened", zap.String("device_name", d.name), zap.String("device", path),
		zap.String("id", d.id.String()), logger.Debug)
	return d, nil
}

func (d *Device) Name() string { return d.name }
func (d *Device) Path() string { return d.path }
func (d *Device) ID() InputID  { return d.id }

// Capabilities queries every declared event type and code,
// EV_ABS codes are completed with axis information.
func (d *Device) Capabilities() (Capabilities, error) {
	var caps = make(Capabilities)

	var absInfos map[evdev.EvCode]evdev.AbsInfo

	for _, t := range d.dev.CapableTypes() {
		caps.AddType(t)

		if t == evdev.EV_ABS && absInfos == nil {
			var err error
			absInfos, err = d.dev.AbsInfos()
			if err != nil {
				return nil, fmt.Errorf("fetching analog information failed: %w", err)
			}
		}

		for _, code := range d.dev.CapableEvents(t) {
			if t != evdev.EV_ABS {
				caps.Add(t, code, nil)
				continue
			}

			ai, ok := absInfos[code]
			if !ok {
				return nil, fmt.Errorf("analog information for %s missing", evdev.CodeName(t, code))
			}
			caps.Add(t, code, &AbsInfo{
				Value:      ai.Value,
				Minimum:    ai.Minimum,
				Maximum:    ai.Maximum,
				Fuzz:       ai.Fuzz,
				Flat:       ai.Flat,
				Resolution: ai.Resolution,
			})
		}
	}

	return caps, nil
}

// ReadEvent blocks until next event is available.
// Returned error wraps ErrDeviceGone when device has been disconnected
// and ErrTransient when read may be repeated.
func (d *Device) ReadEvent() (*evdev.InputEvent, error) {
	ev, err := d.dev.ReadOne()
	if err != nil {
		return nil, classifyReadError(err)
	}
	return ev, nil
}

func classifyReadError(err error) error {
	switch {
	case errors.Is(err, syscall.ENODEV), errors.Is(err, io.EOF), errors.Is(err, os.ErrClosed):
		return fmt.Errorf("%w: %v", ErrDeviceGone, err)
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EINTR), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}

// Grab grabs device for exclusive usage, other readers stop receiving its events
func (d *Device) Grab() error {
	err := d.dev.Grab()
	if err != nil {
		return err
	}
	log.Info("Grabbing device for exclusive usage", zap.String("device", d.path), logger.Debug)
	return nil
}

func (d *Device) Ungrab() error {
	log.Info("Ungrabbing device", zap.String("device", d.path), logger.Debug)
	return d.dev.Ungrab()
}

func (d *Device) Close() error {
	return d.dev.Close()
}
