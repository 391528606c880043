package pwm

import "github.com/pkg/errors"

const (
	// MaxTick is the largest tick value of the 12-bit counter.
	MaxTick = 4095
	// FullTick marks the always-on sentinel in an off tick.
	FullTick = 4096
)

// DutyCycle is the on/off tick pair written to one channel.
type DutyCycle struct {
	On  int
	Off int
}

var (
	FullOn  = DutyCycle{On: 0, Off: FullTick}
	FullOff = DutyCycle{On: 0, Off: 0}
)

// Validate checks tick ranges. FullOn is the only value allowed past MaxTick.
func (d DutyCycle) Validate() error {
	if d == FullOn {
		return nil
	}
	if d.On < 0 || d.On > MaxTick || d.Off < 0 || d.Off > MaxTick {
		return errors.Wrapf(ErrOutOfRange, "ticks on=%d off=%d", d.On, d.Off)
	}
	if d.On > d.Off {
		return errors.Wrapf(ErrOutOfRange, "on tick %d after off tick %d", d.On, d.Off)
	}
	return nil
}

// Percent maps pct (0-100) linearly onto [0, MaxTick].
func Percent(pct int) (DutyCycle, error) {
	return Scaled(pct, 0, MaxTick)
}

// Scaled maps pct (0-100) linearly onto [min, max] ticks as the off tick.
func Scaled(pct, min, max int) (DutyCycle, error) {
	if pct < 0 || pct > 100 {
		return DutyCycle{}, errors.Wrapf(ErrOutOfRange, "percentage %d", pct)
	}
	return DutyCycle{On: 0, Off: min + (max-min)*pct/100}, nil
}
