package io

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"

	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

// GobotTransport opens the bus through gobot's Raspberry Pi adaptor.
type GobotTransport struct{}

func (GobotTransport) Open(sda, scl int) (pwm.Bus, error) {
	n, err := BusNumber(sda, scl)
	if err != nil {
		return nil, err
	}
	r := raspi.NewAdaptor()
	if err := r.Connect(); err != nil {
		return nil, errors.Wrap(err, "connect raspi adaptor")
	}
	return &gobotBus{adaptor: r, bus: n}, nil
}

type gobotBus struct {
	adaptor *raspi.Adaptor
	bus     int
	conns   []i2c.Connection
}

func (b *gobotBus) Connect(addr uint16) (pwm.Conn, error) {
	conn, err := b.adaptor.GetConnection(int(addr), b.bus)
	if err != nil {
		return nil, errors.Wrapf(err, "i2c connection to 0x%02x", addr)
	}
	b.conns = append(b.conns, conn)
	return gobotConn{conn: conn}, nil
}

func (b *gobotBus) Close() error {
	var result *multierror.Error
	for _, c := range b.conns {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	b.conns = nil
	if err := b.adaptor.Finalize(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

type gobotConn struct {
	conn i2c.Connection
}

func (c gobotConn) WriteReg(reg byte, data []byte) error {
	return c.conn.WriteBlockData(reg, data)
}
