package motor

import "github.com/Seann-Moser/motorhat/pkg/pwm"

type Servo struct {
	c *Controller
	b ServoBinding
}

// MoveTo maps angle (0-100) linearly onto the calibrated tick range.
func (s *Servo) MoveTo(angle int) error {
	if err := s.c.checkReady(); err != nil {
		return err
	}
	duty, err := pwm.Scaled(angle, s.b.MinTick, s.b.MaxTick)
	if err != nil {
		return err
	}
	return s.c.write(s.b.Channel, duty)
}
