package input

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const devicesList = "/proc/bus/input/devices"

// GetHandlers returns a list of available input handlers in the system.
func GetHandlers() ([]DeviceInfo, error) {
	data, err := os.ReadFile(devicesList)
	if err != nil {
		return nil, err
	}

	return unmarshal(data)
}

// Joysticks returns handlers of game controllers that expose an event node,
// they are the ones worth relaying.
func Joysticks(infos []DeviceInfo) []DeviceInfo {
	var joysticks = make([]DeviceInfo, 0)
	for _, di := range infos {
		if di.HandlerType() == DI_TYPE_JOYSTICK && di.Event() != "" {
			joysticks = append(joysticks, di)
		}
	}
	return joysticks
}

// unmarshal parses /proc/bus/input/devices file
func unmarshal(data []byte) ([]DeviceInfo, error) {
	var devices = make([]DeviceInfo, 0)

	var device DeviceInfo
	var pending bool

	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			if pending {
				devices = append(devices, device)
				device = DeviceInfo{}
				pending = false
			}
			continue
		}
		if len(line) < 3 {
			return devices, fmt.Errorf("malformed line: \"%s\"", line)
		}
		pending = true

		label := line[:1]
		info := line[3:]

		switch label {
		case "I":
			for _, param := range strings.Fields(info) {
				fields := strings.SplitN(param, "=", 2)
				if len(fields) != 2 {
					return devices, fmt.Errorf("malformed id parameter: \"%s\"", param)
				}
				v, err := strconv.ParseUint(fields[1], 16, 16)
				if err != nil {
					return devices, fmt.Errorf("hex decoding failed: %w", err)
				}

				switch fields[0] {
				case "Bus":
					device.ID.Bus = uint16(v)
				case "Vendor":
					device.ID.Vendor = uint16(v)
				case "Product":
					device.ID.Product = uint16(v)
				case "Version":
					device.ID.Version = uint16(v)
				}
			}
		case "N":
			device.Name = strings.Trim(strings.TrimPrefix(info, "Name="), "\"")
		case "P":
			device.Phys = strings.TrimPrefix(info, "Phys=")
		case "S":
			device.Sysfs = strings.TrimPrefix(info, "Sysfs=")
		case "U":
			device.Uniq = strings.TrimPrefix(info, "Uniq=")
		case "H":
			device.Handlers = strings.Fields(strings.TrimPrefix(info, "Handlers="))
		}
	}

	if pending {
		devices = append(devices, device)
	}

	return devices, nil
}
