package motor

import (
	"github.com/pkg/errors"

	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

// DcBinding wires a DC motor: Enable carries the speed, Forward and Reverse
// select the direction.
type DcBinding struct {
	Enable  pwm.Channel
	Forward pwm.Channel
	Reverse pwm.Channel
}

// StepperBinding wires the four coil channels of a bipolar stepper.
type StepperBinding struct {
	Coils       [4]pwm.Channel
	StepsPerRev int
	RPM         int
}

// ServoBinding carries the servo's calibrated pulse range in ticks.
type ServoBinding struct {
	Channel pwm.Channel
	MinTick int
	MaxTick int
}

type LedBinding struct {
	Channel pwm.Channel
}

// Bindings maps every actuator role to its channels. It is fixed for the
// lifetime of a Controller.
type Bindings struct {
	DC      DcBinding
	Stepper StepperBinding
	Servo   ServoBinding
	Led     LedBinding
}

func DefaultBindings() Bindings {
	return Bindings{
		Servo:   ServoBinding{Channel: 0, MinTick: 150, MaxTick: 600},
		Stepper: StepperBinding{Coils: [4]pwm.Channel{2, 3, 4, 5}, StepsPerRev: 200, RPM: 30},
		DC:      DcBinding{Enable: 8, Forward: 9, Reverse: 10},
		Led:     LedBinding{Channel: 15},
	}
}

// Channels lists every bound channel.
func (b Bindings) Channels() []pwm.Channel {
	chs := []pwm.Channel{b.DC.Enable, b.DC.Forward, b.DC.Reverse}
	chs = append(chs, b.Stepper.Coils[:]...)
	return append(chs, b.Servo.Channel, b.Led.Channel)
}

// Validate checks channel ranges, that no channel has two owners, and the
// calibration values.
func (b Bindings) Validate() error {
	owner := make(map[pwm.Channel]bool)
	for _, ch := range b.Channels() {
		if !ch.Valid() {
			return errors.Wrapf(pwm.ErrOutOfRange, "bound channel %d", ch)
		}
		if owner[ch] {
			return errors.Errorf("channel %d bound twice", ch)
		}
		owner[ch] = true
	}
	s := b.Servo
	if s.MinTick < 0 || s.MaxTick > pwm.MaxTick || s.MinTick >= s.MaxTick {
		return errors.Wrapf(pwm.ErrOutOfRange, "servo ticks min=%d max=%d", s.MinTick, s.MaxTick)
	}
	if b.Stepper.StepsPerRev <= 0 || b.Stepper.RPM <= 0 {
		return errors.Wrapf(pwm.ErrOutOfRange, "stepper steps/rev=%d rpm=%d", b.Stepper.StepsPerRev, b.Stepper.RPM)
	}
	return nil
}
