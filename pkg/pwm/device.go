package pwm

import "periph.io/x/conn/v3/physic"

// Device is the contract for driving the expander's channels.
//
// Implementations are not safe for concurrent use; callers serialize access.
type Device interface {
	// SetPwm writes a duty cycle to one channel.
	SetPwm(ch Channel, on, off int) error
	// SetUpdateRate configures the PWM oscillator frequency. It is called once,
	// before any SetPwm.
	SetUpdateRate(freq physic.Frequency) error
}

// State is the connection state of a device.
type State int

const (
	Uninitialized State = iota
	Connected
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connected:
		return "connected"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}

// Transport opens the two-wire bus the expander is attached to.
type Transport interface {
	Open(sda, scl int) (Bus, error)
}

// Bus is an opened, exclusively owned bus handle.
type Bus interface {
	Connect(addr uint16) (Conn, error)
	Close() error
}

// Conn is a connection to a single device address on a Bus.
type Conn interface {
	WriteReg(reg byte, data []byte) error
}
