package io

import (
	"strconv"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

// PeriphTransport opens the bus through periph.io.
type PeriphTransport struct {
	// BusName overrides the bus picked from the pins, e.g. "I2C1".
	BusName string
}

func (t PeriphTransport) Open(sda, scl int) (pwm.Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	name := t.BusName
	if name == "" {
		n, err := BusNumber(sda, scl)
		if err != nil {
			return nil, err
		}
		name = strconv.Itoa(n)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}
	return &periphBus{bus: bus}, nil
}

type periphBus struct {
	bus i2c.BusCloser
}

func (b *periphBus) Connect(addr uint16) (pwm.Conn, error) {
	return &periphConn{dev: &i2c.Dev{Bus: b.bus, Addr: addr}}, nil
}

func (b *periphBus) Close() error {
	return b.bus.Close()
}

type periphConn struct {
	dev *i2c.Dev
}

func (c *periphConn) WriteReg(reg byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reg)
	buf = append(buf, data...)
	_, err := c.dev.Write(buf)
	return err
}
