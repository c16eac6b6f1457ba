package relay

import (
	"errors"
	"fmt"
)

// ErrInvocation is returned for a bad command line, no device is touched.
var ErrInvocation = errors.New("invalid invocation")

// Op names the device operation that failed
type Op string

const (
	OpOpen     Op = "open"
	OpQuery    Op = "query"
	OpRegister Op = "register"
	OpCommit   Op = "commit"
	OpActivate Op = "activate"
	OpRead     Op = "read"
	OpWrite    Op = "write"
	OpTeardown Op = "teardown"
)

// DeviceError is a fatal failure of the source or the virtual device
type DeviceError struct {
	Op  Op
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s failed: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// FailedOp returns the operation err failed on, empty when err is not a DeviceError.
func FailedOp(err error) Op {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Op
	}
	return ""
}
