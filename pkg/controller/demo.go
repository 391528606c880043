package controller

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Seann-Moser/motorhat/pkg/motor"
)

type Demo string

const (
	DemoLed     Demo = "led"
	DemoDc      Demo = "dc"
	DemoServo   Demo = "servo"
	DemoStepper Demo = "stepper"
)

// RunDemo runs the named sequences in order and always finishes with an
// all stop.
func (c *Controller) RunDemo(ctx context.Context, demos []Demo, stepperSteps int) (err error) {
	defer func() {
		if serr := c.Stop(); serr != nil && err == nil {
			err = serr
		}
	}()
	for _, d := range demos {
		c.log.Infow("running demo", "demo", string(d))
		switch d {
		case DemoLed:
			err = c.runLed(ctx)
		case DemoDc:
			err = c.runDcMotor(ctx)
		case DemoServo:
			err = c.runServo(ctx)
		case DemoStepper:
			err = c.Do(func(m *motor.Controller) error {
				return m.StepperMotor().RotateContext(ctx, stepperSteps, nil)
			})
		default:
			err = errors.Errorf("unknown demo %q", d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) led(brightness int) error {
	return c.Do(func(m *motor.Controller) error { return m.Led0().On(brightness) })
}

func (c *Controller) runLed(ctx context.Context) error {
	for i := 0; i < 20; i++ {
		if err := c.led(100); err != nil {
			return err
		}
		if err := c.sleep(ctx, 100*time.Millisecond); err != nil {
			return err
		}
		if err := c.led(0); err != nil {
			return err
		}
		if err := c.sleep(ctx, 100*time.Millisecond); err != nil {
			return err
		}
	}
	for i := 0; i <= 200; i++ {
		level := i
		if i > 100 {
			level = 200 - i
		}
		if err := c.led(level); err != nil {
			return err
		}
		if err := c.sleep(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
	return c.led(0)
}

func (c *Controller) runDcMotor(ctx context.Context) error {
	for _, dir := range []motor.Direction{motor.Forward, motor.Reverse} {
		for speed := 10; speed <= 100; speed += 10 {
			err := c.Do(func(m *motor.Controller) error { return m.DcMotor().Go(speed, dir) })
			if err != nil {
				return err
			}
			if err := c.sleep(ctx, time.Second); err != nil {
				return err
			}
		}
		if err := c.Do(func(m *motor.Controller) error { return m.DcMotor().Stop() }); err != nil {
			return err
		}
		if err := c.sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) runServo(ctx context.Context) error {
	for _, angle := range []int{0, 100, 50} {
		if err := c.Do(func(m *motor.Controller) error { return m.Servo().MoveTo(angle) }); err != nil {
			return err
		}
		if err := c.sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}
