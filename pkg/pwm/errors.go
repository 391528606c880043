package pwm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfRange is returned when a channel, tick or percentage is outside its domain.
	ErrOutOfRange = errors.New("value out of range")
	// ErrNotConnected is returned for device writes before configuration or after disposal.
	ErrNotConnected = errors.New("device not connected")
	// ErrNotInitialized is returned for actuator commands issued before Init.
	ErrNotInitialized = errors.New("controller not initialized")
	// ErrTransport wraps failures of the underlying bus.
	ErrTransport = errors.New("transport error")

	ErrAlreadyConfigured  = errors.New("update rate already configured")
	ErrAlreadyInitialized = errors.New("controller already initialized")
)

// transportError matches both ErrTransport and the bus error it wraps.
type transportError struct {
	msg   string
	cause error
}

func (e *transportError) Error() string {
	return e.msg + ": " + e.cause.Error() + ": " + ErrTransport.Error()
}

func (e *transportError) Unwrap() []error { return []error{ErrTransport, e.cause} }

// Cause lets errors.Cause reach the bus error.
func (e *transportError) Cause() error { return e.cause }

func transportErr(err error, format string, args ...interface{}) error {
	return errors.WithStack(&transportError{msg: fmt.Sprintf(format, args...), cause: err})
}
