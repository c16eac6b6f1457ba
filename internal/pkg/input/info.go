package input

import (
	"fmt"
	"strings"
)

type HandlerType int

const (
	DI_TYPE_UNKNOWN = HandlerType(iota)
	DI_TYPE_KEYBOARD
	DI_TYPE_MOUSE
	DI_TYPE_JOYSTICK
)

func (ht HandlerType) String() string {
	switch ht {
	case DI_TYPE_KEYBOARD:
		return "KEYBOARD"
	case DI_TYPE_MOUSE:
		return "MOUSE"
	case DI_TYPE_JOYSTICK:
		return "JOYSTICK"
	default:
		return "UNKNOWN"
	}
}

// DeviceInfo contains information of every reported event device
// it is supposed to be created by unmarshal function only
type DeviceInfo struct {
	ID       InputID  // ID of the device
	Name     string   // name of the device
	Phys     string   // physical path to the device in the system hierarchy
	Sysfs    string   // sysfs path
	Uniq     string   // unique identification code for the device (if device has it)
	Handlers []string // list of input handles associated with the device
}

type InputID struct {
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

func (i InputID) String() string {
	return fmt.Sprintf("0x%04x 0x%04x 0x%04x 0x%04x", i.Bus, i.Vendor, i.Product, i.Version)
}

// Event returns event name, like "event0" for /dev/input/event0
func (d *DeviceInfo) Event() string {
	for _, handler := range d.Handlers {
		if strings.HasPrefix(handler, "event") {
			return handler
		}
	}
	return ""
}

// EventPath returns a /dev/input/event filepath of the device
func (d *DeviceInfo) EventPath() string {
	event := d.Event()
	if event == "" {
		return ""
	}
	return fmt.Sprintf("/dev/input/%s", event)
}

func (d *DeviceInfo) HandlerType() HandlerType {
	for _, h := range d.Handlers {
		switch {
		case strings.HasPrefix(h, "js"):
			return DI_TYPE_JOYSTICK
		case strings.HasPrefix(h, "mouse"):
			return DI_TYPE_MOUSE
		case h == "kbd":
			return DI_TYPE_KEYBOARD
		}
	}
	return DI_TYPE_UNKNOWN
}

func (d *DeviceInfo) String() string {
	return fmt.Sprintf("%s: \"%s\" (%s)", d.EventPath(), d.Name, d.ID.String())
}
