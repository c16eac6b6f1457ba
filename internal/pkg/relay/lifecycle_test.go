package relay

import (
	"errors"
	"fmt"
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func openers(src *fakeSource, sink *fakeSink) (SourceOpener, SinkOpener) {
	openSource := func(path string) (Source, error) {
		*src.calls = append(*src.calls, "src.open "+path)
		return src, nil
	}
	openSink := func() (Sink, error) {
		*sink.calls = append(*sink.calls, "sink.open")
		return sink, nil
	}
	return openSource, openSink
}

func TestRun(t *testing.T) {
	src, sink, calls := newFakes(faceButtons(),
		key(evdev.BTN_EAST, 1), syn(), key(evdev.BTN_EAST, 0), syn(),
	)
	openSource, openSink := openers(src, sink)

	err := Run("/dev/input/event17", DefaultConfig(), openSource, openSink)
	assert.Equal(t, nil, err)

	assert.Equal(t, []string{
		"src.open /dev/input/event17",
		"sink.open",
		"src.capabilities",
		fmt.Sprintf("sink.type %d", evdev.EV_KEY),
		fmt.Sprintf("sink.code %d %d", evdev.EV_KEY, evdev.BTN_SOUTH),
		fmt.Sprintf("sink.code %d %d", evdev.EV_KEY, evdev.BTN_EAST),
		fmt.Sprintf("sink.code %d %d", evdev.EV_KEY, evdev.BTN_C),
		fmt.Sprintf("sink.code %d %d", evdev.EV_KEY, evdev.BTN_NORTH),
		"sink.commit",
		"sink.activate",
		"sink.deactivate",
		"sink.close",
		"src.close",
	}, *calls)

	assert.Equal(t, "Nintendo-XInput", sink.desc.Name)
	assert.Equal(t, []evdev.InputEvent{
		event(evdev.EV_KEY, evdev.BTN_SOUTH, 1), marker(),
		event(evdev.EV_KEY, evdev.BTN_SOUTH, 0), marker(),
	}, sink.written)
}

func TestRunGrab(t *testing.T) {
	src, sink, calls := newFakes(faceButtons())
	openSource, openSink := openers(src, sink)
	cfg := DefaultConfig()
	cfg.Grab = true

	err := Run("/dev/input/event17", cfg, openSource, openSink)
	assert.Equal(t, nil, err)
	assert.Equal(t, "src.grab", (*calls)[1])
	assert.Equal(t, []string{"sink.deactivate", "sink.close", "src.ungrab", "src.close"}, (*calls)[len(*calls)-4:])
}

func TestRunGrabFailure(t *testing.T) {
	src, sink, calls := newFakes(faceButtons())
	src.grabErr = errors.New("device or resource busy")
	openSource, openSink := openers(src, sink)
	cfg := DefaultConfig()
	cfg.Grab = true

	err := Run("/dev/input/event17", cfg, openSource, openSink)
	assert.Equal(t, OpOpen, FailedOp(err))
	assert.Equal(t, []string{"src.open /dev/input/event17", "src.grab", "src.close"}, *calls)
}

func TestRunOpenFailures(t *testing.T) {
	var errNotFound = errors.New("no such file or directory")

	t.Run("source", func(t *testing.T) {
		var sinkOpened bool
		err := Run("/dev/input/event99",
			DefaultConfig(),
			func(path string) (Source, error) { return nil, errNotFound },
			func() (Sink, error) {
				sinkOpened = true
				return nil, nil
			},
		)
		assert.ErrorIs(t, err, errNotFound)
		assert.Equal(t, OpOpen, FailedOp(err))
		assert.False(t, sinkOpened)
	})

	t.Run("sink", func(t *testing.T) {
		src, _, calls := newFakes(faceButtons())
		err := Run("/dev/input/event17",
			DefaultConfig(),
			func(path string) (Source, error) { return src, nil },
			func() (Sink, error) { return nil, errNotFound },
		)
		assert.ErrorIs(t, err, errNotFound)
		assert.Equal(t, OpOpen, FailedOp(err))
		assert.Equal(t, []string{"src.close"}, *calls)
	})
}

func TestRunSetupFailures(t *testing.T) {
	var tests = []struct {
		prepare  func(src *fakeSource, sink *fakeSink)
		op       Op
		teardown []string
	}{
		{
			prepare:  func(src *fakeSource, sink *fakeSink) { src.capsErr = errBroken },
			op:       OpQuery,
			teardown: []string{"src.capabilities", "sink.close", "src.close"},
		},
		{
			prepare:  func(src *fakeSource, sink *fakeSink) { sink.registerErr = errBroken },
			op:       OpRegister,
			teardown: []string{fmt.Sprintf("sink.type %d", evdev.EV_KEY), "sink.close", "src.close"},
		},
		{
			prepare:  func(src *fakeSource, sink *fakeSink) { sink.commitErr = errBroken },
			op:       OpCommit,
			teardown: []string{"sink.commit", "sink.close", "src.close"},
		},
		{
			prepare:  func(src *fakeSource, sink *fakeSink) { sink.activateErr = errBroken },
			op:       OpActivate,
			teardown: []string{"sink.activate", "sink.close", "src.close"},
		},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			src, sink, calls := newFakes(faceButtons(), key(evdev.BTN_EAST, 1))
			test.prepare(src, sink)
			openSource, openSink := openers(src, sink)

			err := Run("/dev/input/event17", DefaultConfig(), openSource, openSink)
			assert.ErrorIs(t, err, errBroken)
			assert.Equal(t, test.op, FailedOp(err))

			assert.Equal(t, test.teardown, (*calls)[len(*calls)-len(test.teardown):])
			assert.NotContains(t, *calls, "sink.deactivate")
			assert.Equal(t, 0, len(sink.written))
			assert.Equal(t, 0, src.nReads)
		})
	}
}

func TestRunWriteFailure(t *testing.T) {
	src, sink, calls := newFakes(faceButtons(), key(evdev.BTN_EAST, 1), key(evdev.BTN_EAST, 0))
	sink.failWrite = 2
	openSource, openSink := openers(src, sink)

	err := Run("/dev/input/event17", DefaultConfig(), openSource, openSink)
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, OpWrite, FailedOp(err))

	assert.Equal(t, []string{"sink.write failed", "sink.deactivate", "sink.close", "src.close"}, (*calls)[len(*calls)-4:])
	assert.Equal(t, 1, len(sink.written))
	assert.Equal(t, 1, src.nReads)
}

func TestRunTeardownFailure(t *testing.T) {
	var errDestroy = errors.New("no such device")

	t.Run("clean run", func(t *testing.T) {
		src, sink, calls := newFakes(faceButtons())
		sink.destroyErr = errDestroy
		openSource, openSink := openers(src, sink)

		err := Run("/dev/input/event17", DefaultConfig(), openSource, openSink)
		assert.ErrorIs(t, err, errDestroy)
		assert.Equal(t, OpTeardown, FailedOp(err))
		assert.Equal(t, []string{"sink.deactivate", "sink.close", "src.close"}, (*calls)[len(*calls)-3:])
	})

	t.Run("failed run", func(t *testing.T) {
		src, sink, _ := newFakes(faceButtons(), key(evdev.BTN_EAST, 1))
		sink.destroyErr = errDestroy
		sink.failWrite = 1
		openSource, openSink := openers(src, sink)

		err := Run("/dev/input/event17", DefaultConfig(), openSource, openSink)
		assert.ErrorIs(t, err, errBroken)
		assert.Equal(t, OpWrite, FailedOp(err))
	})
}
