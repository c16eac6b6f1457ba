package uinput

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var log = logger.GetLogger()

var paths = []string{"/dev/uinput", "/dev/input/uinput"}

var (
	ErrCommitted   = errors.New("capabilities already committed")
	ErrNotActive   = errors.New("device is not active")
	ErrActivated   = errors.New("device already activated")
	ErrUnsupported = errors.New("unsupported event type")
)

type state int

const (
	stateDeclaring state = iota
	stateCommitted
	stateActive
	stateDestroyed
)

// Descriptor is a full description of the virtual device: its identity
// and every capability that needs to be declared before activation.
type Descriptor struct {
	Name         string
	ID           input.InputID
	Capabilities input.Capabilities
}

func (d Descriptor) Declares(t evdev.EvType, code evdev.EvCode) bool {
	return d.Capabilities.HasCode(t, code)
}

func (d Descriptor) Types() []evdev.EvType {
	return d.Capabilities.Types()
}

// Device is a uinput handler, virtual device appears in the system after Activate
type Device struct {
	w     io.WriteCloser
	ioctl func(req uint, arg int) error
	state state
}

// Open opens uinput handler for writing, no virtual device is created yet
func Open() (*Device, error) {
	var lastErr error
	for _, p := range paths {
		f, err := os.OpenFile(p, os.O_WRONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			lastErr = err
			continue
		}
		log.Info("uinput opened", zap.String("path", p), logger.Debug)
		return newDevice(f, fileIoctl(f)), nil
	}
	return nil, fmt.Errorf("opening uinput failed: %w", lastErr)
}

func newDevice(w io.WriteCloser, ioctl func(req uint, arg int) error) *Device {
	return &Device{w: w, ioctl: ioctl}
}

// fileIoctl issues ioctl through raw connection, f.Fd() would put the file into blocking mode
func fileIoctl(f *os.File) func(req uint, arg int) error {
	return func(req uint, arg int) error {
		rc, err := f.SyscallConn()
		if err != nil {
			return err
		}
		var ioctlErr error
		err = rc.Control(func(fd uintptr) {
			ioctlErr = unix.IoctlSetInt(int(fd), req, arg)
		})
		if err != nil {
			return err
		}
		return ioctlErr
	}
}

func setBitRequest(t evdev.EvType) (uint, error) {
	switch t {
	case evdev.EV_KEY:
		return uiSetKeyBit, nil
	case evdev.EV_REL:
		return uiSetRelBit, nil
	case evdev.EV_ABS:
		return uiSetAbsBit, nil
	case evdev.EV_MSC:
		return uiSetMscBit, nil
	case evdev.EV_LED:
		return uiSetLedBit, nil
	case evdev.EV_SND:
		return uiSetSndBit, nil
	case evdev.EV_FF:
		return uiSetFfBit, nil
	case evdev.EV_SW:
		return uiSetSwBit, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupported, t)
}

// EnableType declares event type (UI_SET_EVBIT)
func (d *Device) EnableType(t evdev.EvType) error {
	if d.state != stateDeclaring {
		return ErrCommitted
	}
	err := d.ioctl(uiSetEvBit, int(t))
	if err != nil {
		return fmt.Errorf("setting event type %s failed: %w", evdev.TypeName(t), err)
	}
	return nil
}

// EnableCode declares event code of given type (UI_SET_KEYBIT, UI_SET_ABSBIT etc.)
func (d *Device) EnableCode(t evdev.EvType, code evdev.EvCode) error {
	if d.state != stateDeclaring {
		return ErrCommitted
	}
	req, err := setBitRequest(t)
	if err != nil {
		return err
	}
	err = d.ioctl(req, int(code))
	if err != nil {
		return fmt.Errorf("setting event code %s failed: %w", evdev.CodeName(t, code), err)
	}
	return nil
}

// Commit writes device identity and axis ranges, it finalizes capability declarations
func (d *Device) Commit(desc Descriptor) error {
	if d.state != stateDeclaring {
		return ErrCommitted
	}

	dev := buildUserDev(desc)
	buf := new(bytes.Buffer)
	err := binary.Write(buf, binary.NativeEndian, &dev)
	if err != nil {
		return fmt.Errorf("encoding device configuration failed: %w", err)
	}

	_, err = d.w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("writing device configuration failed: %w", err)
	}
	d.state = stateCommitted
	return nil
}

func buildUserDev(desc Descriptor) userDev {
	var dev userDev
	copy(dev.Name[:maxNameSize-1], desc.Name) // keeping trailing null
	dev.ID = inputID{
		Bustype: desc.ID.Bus,
		Vendor:  desc.ID.Vendor,
		Product: desc.ID.Product,
		Version: desc.ID.Version,
	}

	for _, code := range desc.Capabilities.Codes(evdev.EV_ABS) {
		if int(code) >= absCnt {
			continue
		}
		info, ok := desc.Capabilities.Axis(code)
		if !ok {
			continue
		}
		dev.Absmin[code] = info.Minimum
		dev.Absmax[code] = info.Maximum
		if info.Fuzz != 0 {
			dev.Absfuzz[code] = info.Fuzz
		}
		if info.Flat != 0 {
			dev.Absflat[code] = info.Flat
		}
	}
	return dev
}

// Activate creates virtual device (UI_DEV_CREATE), capabilities cannot be changed afterwards
func (d *Device) Activate() error {
	switch d.state {
	case stateDeclaring:
		return errors.New("capabilities not committed")
	case stateActive:
		return ErrActivated
	case stateDestroyed:
		return errors.New("device destroyed")
	}
	err := d.ioctl(uiDevCreate, 0)
	if err != nil {
		return fmt.Errorf("creating uinput device failed: %w", err)
	}
	d.state = stateActive
	return nil
}

// WriteEvent writes a single event record, one write(2) per event
func (d *Device) WriteEvent(ev *evdev.InputEvent) error {
	if d.state != stateActive {
		return ErrNotActive
	}

	buf := new(bytes.Buffer)
	err := binary.Write(buf, binary.NativeEndian, &inputEvent{
		Type:  uint16(ev.Type),
		Code:  uint16(ev.Code),
		Value: ev.Value,
	})
	if err != nil {
		return fmt.Errorf("encoding event failed: %w", err)
	}

	_, err = d.w.Write(buf.Bytes())
	return err
}

// Deactivate destroys virtual device (UI_DEV_DESTROY)
func (d *Device) Deactivate() error {
	if d.state != stateActive {
		return ErrNotActive
	}
	d.state = stateDestroyed
	err := d.ioctl(uiDevDestroy, 0)
	if err != nil {
		return fmt.Errorf("destroying uinput device failed: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	return d.w.Close()
}
