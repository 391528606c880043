package motor

import "github.com/Seann-Moser/motorhat/pkg/pwm"

type Led struct {
	c  *Controller
	ch pwm.Channel
}

// On sets brightness (0-100). Use 100 for fully on.
func (l *Led) On(brightness int) error {
	if err := l.c.checkReady(); err != nil {
		return err
	}
	duty, err := pwm.Percent(brightness)
	if err != nil {
		return err
	}
	return l.c.write(l.ch, duty)
}

func (l *Led) Off() error {
	return l.On(0)
}
