package input

import (
	"sort"

	"github.com/holoplot/go-evdev"
)

// Capabilities describes every event type and code a device declares.
// AbsInfo is only present for EV_ABS codes, nil otherwise.
type Capabilities map[evdev.EvType]map[evdev.EvCode]*AbsInfo

// Has tells if given event type is declared
func (c Capabilities) Has(t evdev.EvType) bool {
	_, ok := c[t]
	return ok
}

func (c Capabilities) HasCode(t evdev.EvType, code evdev.EvCode) bool {
	codes, ok := c[t]
	if !ok {
		return false
	}
	_, ok = codes[code]
	return ok
}

// Add declares the code of given type, info is stored for EV_ABS only
func (c Capabilities) Add(t evdev.EvType, code evdev.EvCode, info *AbsInfo) {
	codes, ok := c[t]
	if !ok {
		codes = make(map[evdev.EvCode]*AbsInfo)
		c[t] = codes
	}
	if t != evdev.EV_ABS {
		info = nil
	}
	codes[code] = info
}

// AddType declares event type without any codes
func (c Capabilities) AddType(t evdev.EvType) {
	if _, ok := c[t]; !ok {
		c[t] = make(map[evdev.EvCode]*AbsInfo)
	}
}

// Axis returns axis information of declared EV_ABS code
func (c Capabilities) Axis(code evdev.EvCode) (AbsInfo, bool) {
	info, ok := c[evdev.EV_ABS][code]
	if !ok || info == nil {
		return AbsInfo{}, false
	}
	return *info, true
}

// Types returns declared event types in ascending order
func (c Capabilities) Types() []evdev.EvType {
	var types = make([]evdev.EvType, 0, len(c))
	for t := range c {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Codes returns declared codes of given type in ascending order
func (c Capabilities) Codes(t evdev.EvType) []evdev.EvCode {
	var codes = make([]evdev.EvCode, 0, len(c[t]))
	for code := range c[t] {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
