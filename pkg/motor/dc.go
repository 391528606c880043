package motor

import (
	"github.com/pkg/errors"

	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

// Direction selects which direction channel of a DC motor is driven.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return "unknown"
}

// ParseDirection accepts "forward" or "reverse".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	}
	return 0, errors.Wrapf(pwm.ErrOutOfRange, "direction %q", s)
}

// DcMotor drives a continuous DC motor through an H-bridge.
type DcMotor struct {
	c *Controller
	b DcBinding

	// active is the direction channel currently held high, if any.
	active *pwm.Channel
}

// Go runs the motor at speed (0-100) in dir. At most one direction channel is
// high at any time: the opposite one is released before the new one is set.
func (m *DcMotor) Go(speed int, dir Direction) error {
	if err := m.c.checkReady(); err != nil {
		return err
	}
	duty, err := pwm.Percent(speed)
	if err != nil {
		return err
	}
	want, other := m.b.Forward, m.b.Reverse
	switch dir {
	case Forward:
	case Reverse:
		want, other = other, want
	default:
		return errors.Wrapf(pwm.ErrOutOfRange, "direction %d", dir)
	}

	if m.active != nil && *m.active == other {
		if err := m.c.write(other, pwm.FullOff); err != nil {
			return err
		}
		m.active = nil
	}
	if m.active == nil {
		if err := m.c.write(want, pwm.FullOn); err != nil {
			return err
		}
		m.active = &want
	}
	return m.c.write(m.b.Enable, duty)
}

// Stop sets every channel of the motor to full-off.
func (m *DcMotor) Stop() error {
	if err := m.c.checkReady(); err != nil {
		return err
	}
	for _, ch := range []pwm.Channel{m.b.Enable, m.b.Forward, m.b.Reverse} {
		if err := m.c.write(ch, pwm.FullOff); err != nil {
			return err
		}
	}
	m.active = nil
	return nil
}

// Direction reports the direction currently engaged; ok is false when the
// motor is stopped.
func (m *DcMotor) Direction() (dir Direction, ok bool) {
	if m.active == nil {
		return Forward, false
	}
	if *m.active == m.b.Reverse {
		return Reverse, true
	}
	return Forward, true
}
