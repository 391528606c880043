package pwm

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

// PCA9685 registers.
const (
	regMode1    = 0x00
	regMode2    = 0x01
	regLEDBase  = 0x06
	regPreScale = 0xfe

	mode1AllCall = 0x01
	mode1Sleep   = 0x10
	mode1AutoInc = 0x20
	mode1Restart = 0x80
	mode2OutDrv  = 0x04

	fullBit = 0x10

	oscillatorHz = 25000000
)

var (
	MinFrequency = 24 * physic.Hertz
	MaxFrequency = 1526 * physic.Hertz
)

// RealDevice drives a PCA9685 through a bus connection.
type RealDevice struct {
	conn  Conn
	state State
	log   *zap.SugaredLogger

	sleep func(time.Duration)
}

func NewRealDevice(conn Conn, log *zap.SugaredLogger) *RealDevice {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RealDevice{conn: conn, log: log, sleep: time.Sleep}
}

func (d *RealDevice) State() State {
	return d.state
}

func (d *RealDevice) SetUpdateRate(freq physic.Frequency) error {
	switch d.state {
	case Disposed:
		return errors.Wrap(ErrNotConnected, "set update rate")
	case Connected:
		return ErrAlreadyConfigured
	}
	if d.conn == nil {
		return errors.Wrap(ErrNotConnected, "set update rate: no bus connection")
	}
	if freq < MinFrequency || freq > MaxFrequency {
		return errors.Wrapf(ErrOutOfRange, "frequency %s", freq)
	}

	prescale := prescaleFor(freq)
	d.log.Debugw("configuring pca9685", "frequency", freq.String(), "prescale", prescale)

	writes := []struct {
		reg  byte
		data byte
	}{
		{regMode2, mode2OutDrv},
		// The prescaler can only be written while the oscillator sleeps.
		{regMode1, mode1Sleep | mode1AllCall},
		{regPreScale, prescale},
		{regMode1, mode1AutoInc | mode1AllCall},
	}
	for _, w := range writes {
		if err := d.conn.WriteReg(w.reg, []byte{w.data}); err != nil {
			return transportErr(err, "write register 0x%02x", w.reg)
		}
	}
	d.sleep(500 * time.Microsecond)
	if err := d.conn.WriteReg(regMode1, []byte{mode1Restart | mode1AutoInc | mode1AllCall}); err != nil {
		return transportErr(err, "restart oscillator")
	}
	d.state = Connected
	return nil
}

func (d *RealDevice) SetPwm(ch Channel, on, off int) error {
	if d.state != Connected {
		return errors.Wrapf(ErrNotConnected, "set channel %d (%s)", ch, d.state)
	}
	if !ch.Valid() {
		return errors.Wrapf(ErrOutOfRange, "channel %d", ch)
	}
	duty := DutyCycle{On: on, Off: off}
	if err := duty.Validate(); err != nil {
		return err
	}
	if err := d.conn.WriteReg(ledReg(ch), encodeDuty(duty)); err != nil {
		return transportErr(err, "set channel %d", ch)
	}
	return nil
}

func (d *RealDevice) dispose() {
	d.state = Disposed
	d.conn = nil
}

func ledReg(ch Channel) byte {
	return byte(regLEDBase + 4*int(ch))
}

// encodeDuty returns ON_L, ON_H, OFF_L, OFF_H.
func encodeDuty(d DutyCycle) []byte {
	if d == FullOn {
		return []byte{0, fullBit, 0, 0}
	}
	return []byte{byte(d.On), byte(d.On >> 8), byte(d.Off), byte(d.Off >> 8)}
}

func prescaleFor(freq physic.Frequency) byte {
	hz := float64(freq) / float64(physic.Hertz)
	return byte(math.Round(oscillatorHz/(4096*hz)) - 1)
}
