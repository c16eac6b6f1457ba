package input

import "github.com/holoplot/go-evdev"

// MaxCode returns the highest valid event code for the given type,
// ok is false for types without known range.
func MaxCode(t evdev.EvType) (code evdev.EvCode, ok bool) {
	switch t {
	case evdev.EV_KEY:
		return evdev.KEY_MAX, true
	case evdev.EV_ABS:
		return evdev.ABS_MAX, true
	}
	return 0, false
}

// AbsInfo - used by EVIOCGABS/EVIOCSABS ioctls
// @Value: latest reported value for the axis.
// @Minimum: specifies minimum value for the axis.
// @Maximum: specifies maximum value for the axis.
// @Fuzz: specifies fuzz value that is used to filter noise from
// the event stream.
// @Flat: values that are within this value will be discarded by
// joydev interface and reported as 0 instead.
// @Resolution: specifies resolution for the values reported for
// the axis.
//
// Fuzz and Flat equal to zero mean "unset", not "zero tolerance".
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}
