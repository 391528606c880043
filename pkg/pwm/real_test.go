package pwm

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"
)

func newConfigured(t *testing.T) (*RealDevice, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	d := NewRealDevice(conn, nil)
	d.sleep = func(time.Duration) {}
	if err := d.SetUpdateRate(60 * physic.Hertz); err != nil {
		t.Fatalf("SetUpdateRate: %v", err)
	}
	return d, conn
}

func TestRealDevice_ReadBack(t *testing.T) {
	d, conn := newConfigured(t)
	for c := Channel(0); c < NumChannels; c++ {
		for _, tick := range []int{0, 1, 255, 256, 2047, MaxTick} {
			if err := d.SetPwm(c, 0, tick); err != nil {
				t.Fatalf("SetPwm(%d, 0, %d): %v", c, tick, err)
			}
			if got := conn.duty(c); got != (DutyCycle{0, tick}) {
				t.Fatalf("%s read back %v want (0,%d)", chName(c), got, tick)
			}
		}
	}
}

func TestRealDevice_FullOnSentinel(t *testing.T) {
	d, conn := newConfigured(t)
	if err := d.SetPwm(3, FullOn.On, FullOn.Off); err != nil {
		t.Fatal(err)
	}
	if got := conn.duty(3); got != FullOn {
		t.Fatalf("got %v want FullOn", got)
	}
	if conn.regs[ledReg(3)+1] != fullBit {
		t.Fatalf("ON_H=0x%02x want full bit", conn.regs[ledReg(3)+1])
	}
}

func TestRealDevice_Prescale(t *testing.T) {
	_, conn := newConfigured(t)
	// round(25MHz / (4096 * 60)) - 1
	if got := conn.regs[regPreScale]; got != 101 {
		t.Fatalf("prescale=%d want 101", got)
	}
	if got := conn.regs[regMode1]; got&mode1Sleep != 0 || got&mode1Restart == 0 {
		t.Fatalf("mode1=0x%02x want awake with restart", got)
	}
}

func TestRealDevice_States(t *testing.T) {
	conn := newFakeConn()
	d := NewRealDevice(conn, nil)
	d.sleep = func(time.Duration) {}

	if err := d.SetPwm(0, 0, 10); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("before configure err=%v want ErrNotConnected", err)
	}
	if conn.writes != 0 {
		t.Fatalf("writes=%d want 0", conn.writes)
	}
	if err := d.SetUpdateRate(10 * physic.Hertz); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err=%v want ErrOutOfRange", err)
	}
	if err := d.SetUpdateRate(60 * physic.Hertz); err != nil {
		t.Fatal(err)
	}
	if d.State() != Connected {
		t.Fatalf("state=%v", d.State())
	}
	if err := d.SetUpdateRate(50 * physic.Hertz); !errors.Is(err, ErrAlreadyConfigured) {
		t.Fatalf("err=%v want ErrAlreadyConfigured", err)
	}

	d.dispose()
	if err := d.SetPwm(0, 0, 10); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("after dispose err=%v want ErrNotConnected", err)
	}
	if err := d.SetUpdateRate(60 * physic.Hertz); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("after dispose err=%v want ErrNotConnected", err)
	}
}

func TestRealDevice_Validation(t *testing.T) {
	d, conn := newConfigured(t)
	before := conn.writes
	for _, tc := range []struct {
		ch      Channel
		on, off int
	}{
		{16, 0, 10},
		{-1, 0, 10},
		{0, 0, 5000},
		{0, -1, 10},
		{0, 20, 10},
	} {
		if err := d.SetPwm(tc.ch, tc.on, tc.off); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("SetPwm(%d,%d,%d) err=%v want ErrOutOfRange", tc.ch, tc.on, tc.off, err)
		}
	}
	if conn.writes != before {
		t.Fatalf("invalid calls wrote to the bus")
	}
}

func TestRealDevice_TransportError(t *testing.T) {
	d, conn := newConfigured(t)
	conn.err = errBus
	err := d.SetPwm(1, 0, 100)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err=%v want ErrTransport", err)
	}
	if !errors.Is(err, errBus) {
		t.Fatalf("err=%v lost the bus error", err)
	}

	conn2 := newFakeConn()
	conn2.err = errBus
	d2 := NewRealDevice(conn2, nil)
	if err := d2.SetUpdateRate(60 * physic.Hertz); !errors.Is(err, ErrTransport) {
		t.Fatalf("err=%v want ErrTransport", err)
	}
	if d2.State() != Uninitialized {
		t.Fatalf("state=%v want uninitialized", d2.State())
	}
}
