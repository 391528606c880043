package pwm

import "github.com/pkg/errors"

// NumChannels is the number of outputs on the expander.
const NumChannels = 16

// Channel is one addressable output of the expander (0-15).
type Channel int

// NewChannel validates id and returns it as a Channel.
func NewChannel(id int) (Channel, error) {
	c := Channel(id)
	if !c.Valid() {
		return 0, errors.Wrapf(ErrOutOfRange, "channel %d", id)
	}
	return c, nil
}

func (c Channel) Valid() bool {
	return c >= 0 && c < NumChannels
}

func (c Channel) ID() int {
	return int(c)
}
