package relay

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/gethiox/padswap/internal/pkg/uinput"
	"github.com/holoplot/go-evdev"
)

func TestMain(m *testing.M) {
	go func() {
		for range logger.Messages {
		}
	}()
	os.Exit(m.Run())
}

var errBroken = errors.New("broken pipe")

type read struct {
	ev  *evdev.InputEvent
	err error
}

type fakeSource struct {
	calls *[]string
	caps  input.Capabilities
	reads []read

	capsErr error
	grabErr error
	nReads  int
}

func (s *fakeSource) Capabilities() (input.Capabilities, error) {
	*s.calls = append(*s.calls, "src.capabilities")
	if s.capsErr != nil {
		return nil, s.capsErr
	}
	return s.caps, nil
}

func (s *fakeSource) ReadEvent() (*evdev.InputEvent, error) {
	s.nReads++
	if len(s.reads) == 0 {
		return nil, fmt.Errorf("%w: %v", input.ErrDeviceGone, syscall.ENODEV)
	}
	r := s.reads[0]
	s.reads = s.reads[1:]
	return r.ev, r.err
}

func (s *fakeSource) Grab() error {
	*s.calls = append(*s.calls, "src.grab")
	return s.grabErr
}

func (s *fakeSource) Ungrab() error {
	*s.calls = append(*s.calls, "src.ungrab")
	return nil
}

func (s *fakeSource) Close() error {
	*s.calls = append(*s.calls, "src.close")
	return nil
}

type fakeSink struct {
	calls   *[]string
	written []evdev.InputEvent
	desc    uinput.Descriptor

	registerErr error
	commitErr   error
	activateErr error
	destroyErr  error
	failWrite   int // 1-based index of failing write, 0 never fails
}

func (s *fakeSink) EnableType(t evdev.EvType) error {
	*s.calls = append(*s.calls, fmt.Sprintf("sink.type %d", t))
	return s.registerErr
}

func (s *fakeSink) EnableCode(t evdev.EvType, code evdev.EvCode) error {
	*s.calls = append(*s.calls, fmt.Sprintf("sink.code %d %d", t, code))
	return s.registerErr
}

func (s *fakeSink) Commit(desc uinput.Descriptor) error {
	*s.calls = append(*s.calls, "sink.commit")
	s.desc = desc
	return s.commitErr
}

func (s *fakeSink) Activate() error {
	*s.calls = append(*s.calls, "sink.activate")
	return s.activateErr
}

func (s *fakeSink) WriteEvent(ev *evdev.InputEvent) error {
	if s.failWrite == len(s.written)+1 {
		*s.calls = append(*s.calls, "sink.write failed")
		return errBroken
	}
	s.written = append(s.written, *ev)
	return nil
}

func (s *fakeSink) Deactivate() error {
	*s.calls = append(*s.calls, "sink.deactivate")
	return s.destroyErr
}

func (s *fakeSink) Close() error {
	*s.calls = append(*s.calls, "sink.close")
	return nil
}

func newFakes(caps input.Capabilities, reads ...read) (*fakeSource, *fakeSink, *[]string) {
	var calls = make([]string, 0)
	return &fakeSource{calls: &calls, caps: caps, reads: reads}, &fakeSink{calls: &calls}, &calls
}

func faceButtons() input.Capabilities {
	caps := make(input.Capabilities)
	for _, code := range []evdev.EvCode{evdev.BTN_EAST, evdev.BTN_SOUTH, evdev.BTN_NORTH, evdev.BTN_C} {
		caps.Add(evdev.EV_KEY, code, nil)
	}
	return caps
}

func gamepad() input.Capabilities {
	caps := faceButtons()
	caps.Add(evdev.EV_KEY, evdev.BTN_START, nil)
	caps.Add(evdev.EV_ABS, evdev.ABS_X, &input.AbsInfo{Value: 12, Minimum: -32768, Maximum: 32767, Fuzz: 16, Flat: 128, Resolution: 3})
	caps.Add(evdev.EV_ABS, evdev.ABS_HAT0X, &input.AbsInfo{Minimum: -1, Maximum: 1})
	caps.AddType(evdev.EV_SYN)
	caps.Add(evdev.EV_MSC, evdev.MSC_SCAN, nil)
	return caps
}

func key(code evdev.EvCode, value int32) read {
	return read{ev: &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}}
}

func abs(code evdev.EvCode, value int32) read {
	return read{ev: &evdev.InputEvent{Type: evdev.EV_ABS, Code: code, Value: value}}
}

func syn() read {
	return read{ev: &evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}}
}

func failure(err error) read {
	return read{err: err}
}

func event(t evdev.EvType, code evdev.EvCode, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: t, Code: code, Value: value}
}

func marker() evdev.InputEvent {
	return *SyncMarker()
}
