package pwm

import (
	"errors"
	"fmt"
)

// fakeConn decodes PCA9685 register writes into per-channel duty cycles.
type fakeConn struct {
	regs   map[byte]byte
	writes int
	err    error
}

func newFakeConn() *fakeConn {
	return &fakeConn{regs: make(map[byte]byte)}
}

func (c *fakeConn) WriteReg(reg byte, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.writes++
	for i, b := range data {
		c.regs[reg+byte(i)] = b
	}
	return nil
}

func (c *fakeConn) duty(ch Channel) DutyCycle {
	base := ledReg(ch)
	on := int(c.regs[base]) | int(c.regs[base+1])<<8
	off := int(c.regs[base+2]) | int(c.regs[base+3])<<8
	if on&(fullBit<<8) != 0 {
		return FullOn
	}
	return DutyCycle{On: on, Off: off}
}

type fakeBus struct {
	conn       *fakeConn
	connectErr error
	closes     int
}

func (b *fakeBus) Connect(addr uint16) (Conn, error) {
	if b.connectErr != nil {
		return nil, b.connectErr
	}
	return b.conn, nil
}

func (b *fakeBus) Close() error {
	b.closes++
	return nil
}

type fakeTransport struct {
	bus     *fakeBus
	openErr error
	opens   int
	sda     int
	scl     int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{bus: &fakeBus{conn: newFakeConn()}}
}

func (t *fakeTransport) Open(sda, scl int) (Bus, error) {
	t.opens++
	t.sda, t.scl = sda, scl
	if t.openErr != nil {
		return nil, t.openErr
	}
	return t.bus, nil
}

var errBus = errors.New("remote I/O error")

func chName(ch Channel) string {
	return fmt.Sprintf("ch%d", ch)
}
