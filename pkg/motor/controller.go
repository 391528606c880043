package motor

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

type Option func(*Controller)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Controller) { c.log = log }
}

// Controller turns actuator commands into channel writes on a borrowed
// pwm.Device. It is not safe for concurrent use.
type Controller struct {
	dev      pwm.Device
	bindings Bindings
	log      *zap.SugaredLogger
	ready    bool

	// after is swapped in tests to skip stepper delays.
	after func(time.Duration) <-chan time.Time

	dc      *DcMotor
	stepper *StepperMotor
	servo   *Servo
	led     *Led
}

func NewController(dev pwm.Device, b Bindings, opts ...Option) *Controller {
	c := &Controller{
		dev:      dev,
		bindings: b,
		after:    time.After,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	c.dc = &DcMotor{c: c, b: b.DC}
	c.stepper = &StepperMotor{c: c, b: b.Stepper}
	c.servo = &Servo{c: c, b: b.Servo}
	c.led = &Led{c: c, ch: b.Led.Channel}
	return c
}

// Init validates the bindings and enables actuator commands. It must be
// called exactly once.
func (c *Controller) Init() error {
	if c.ready {
		return pwm.ErrAlreadyInitialized
	}
	if c.dev == nil {
		return errors.Wrap(pwm.ErrNotConnected, "no device")
	}
	if err := c.bindings.Validate(); err != nil {
		return errors.Wrap(err, "invalid bindings")
	}
	c.ready = true
	c.log.Infow("motor controller ready", "channels", len(c.bindings.Channels()))
	return nil
}

func (c *Controller) Initialized() bool {
	return c.ready
}

func (c *Controller) Bindings() Bindings {
	return c.bindings
}

func (c *Controller) DcMotor() *DcMotor {
	return c.dc
}

func (c *Controller) StepperMotor() *StepperMotor {
	return c.stepper
}

func (c *Controller) Servo() *Servo {
	return c.servo
}

func (c *Controller) Led0() *Led {
	return c.led
}

// AllStop writes full-off to every bound channel. Every channel is attempted
// even if some fail; the failures are returned together.
func (c *Controller) AllStop() error {
	if c.dev == nil {
		return errors.Wrap(pwm.ErrNotConnected, "all stop")
	}
	var result *multierror.Error
	for _, ch := range c.bindings.Channels() {
		if err := c.dev.SetPwm(ch, pwm.FullOff.On, pwm.FullOff.Off); err != nil {
			c.log.Errorw("all stop failed on channel", "channel", int(ch), "error", err)
			result = multierror.Append(result, errors.Wrapf(err, "stop channel %d", ch))
			continue
		}
		// A direction channel that did not release stays active so the next
		// Go releases it before driving the other one.
		if c.dc.active != nil && *c.dc.active == ch {
			c.dc.active = nil
		}
	}
	return result.ErrorOrNil()
}

func (c *Controller) write(ch pwm.Channel, d pwm.DutyCycle) error {
	if !c.ready {
		return pwm.ErrNotInitialized
	}
	return c.dev.SetPwm(ch, d.On, d.Off)
}

func (c *Controller) checkReady() error {
	if !c.ready {
		return pwm.ErrNotInitialized
	}
	return nil
}
