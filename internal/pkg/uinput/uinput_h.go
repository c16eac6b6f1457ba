//go:build linux && (386 || amd64 || arm || arm64 || riscv64)

package uinput

import (
	"syscall"

	"github.com/holoplot/go-evdev"
)

// ioctl requests from linux/uinput.h encoded with the generic _IOC layout,
// architectures with different direction bits (mips, ppc, sparc) are not listed above
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	uiSetEvBit  = 0x40045564
	uiSetKeyBit = 0x40045565
	uiSetRelBit = 0x40045566
	uiSetAbsBit = 0x40045567
	uiSetMscBit = 0x40045568
	uiSetLedBit = 0x40045569
	uiSetSndBit = 0x4004556a
	uiSetFfBit  = 0x4004556b
	uiSetSwBit  = 0x4004556d
)

const (
	maxNameSize = 80
	absCnt      = int(evdev.ABS_CNT)
)

// translated to go from input.h
type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// translated to go from uinput.h, legacy setup written before UI_DEV_CREATE
type userDev struct {
	Name         [maxNameSize]byte
	ID           inputID
	FFEffectsMax uint32
	Absmax       [absCnt]int32
	Absmin       [absCnt]int32
	Absfuzz      [absCnt]int32
	Absflat      [absCnt]int32
}

// translated to go from input.h, record layout expected by write(2) on uinput
type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}
