package motor

import (
	"context"
	"math"
	"time"

	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

// Two-phase full-step sequence over coils A1, A2, B1, B2.
var fullStep = [4][4]bool{
	{true, false, true, false},
	{false, true, true, false},
	{false, true, false, true},
	{true, false, false, true},
}

// StepperMotor drives a bipolar stepper one full step at a time.
type StepperMotor struct {
	c     *Controller
	b     StepperBinding
	phase int
}

// StepDelay is the pause between steps at the rated speed.
func (s *StepperMotor) StepDelay() time.Duration {
	return time.Minute / time.Duration(s.b.RPM*s.b.StepsPerRev)
}

// Duration is the worst-case time Rotate(steps) blocks for.
func (s *StepperMotor) Duration(steps int) time.Duration {
	if steps < 0 {
		steps = -steps
	}
	return time.Duration(steps) * s.StepDelay()
}

// Rotate moves steps full steps; a negative count turns the other way. It
// blocks the caller for Duration(steps) and cannot be interrupted.
func (s *StepperMotor) Rotate(steps int) error {
	return s.RotateContext(context.Background(), steps, nil)
}

// StepsFor converts deg to the nearest whole number of steps.
func (s *StepperMotor) StepsFor(deg float64) int {
	return int(math.Round(deg / 360 * float64(s.b.StepsPerRev)))
}

// RotateDegrees rounds deg to the nearest whole step and rotates.
func (s *StepperMotor) RotateDegrees(deg float64) error {
	return s.Rotate(s.StepsFor(deg))
}

// RotateContext is Rotate with cancellation between steps. progress, if not
// nil, is called after each completed step with the number of steps done.
// Steps already issued are not undone on cancellation.
func (s *StepperMotor) RotateContext(ctx context.Context, steps int, progress func(done int)) error {
	if err := s.c.checkReady(); err != nil {
		return err
	}
	dir := 1
	if steps < 0 {
		dir, steps = -1, -steps
	}
	delay := s.StepDelay()
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := (s.phase + dir + len(fullStep)) % len(fullStep)
		if err := s.energize(fullStep[next]); err != nil {
			return err
		}
		s.phase = next
		if progress != nil {
			progress(i + 1)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.c.after(delay):
		}
	}
	return nil
}

// Release turns every coil off.
func (s *StepperMotor) Release() error {
	if err := s.c.checkReady(); err != nil {
		return err
	}
	return s.energize([4]bool{})
}

func (s *StepperMotor) energize(coils [4]bool) error {
	for i, on := range coils {
		duty := pwm.FullOff
		if on {
			duty = pwm.FullOn
		}
		if err := s.c.write(s.b.Coils[i], duty); err != nil {
			return err
		}
	}
	return nil
}
