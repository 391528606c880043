package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Seann-Moser/motorhat/pkg/config"
	"github.com/Seann-Moser/motorhat/pkg/motor"
	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

type fakeConn struct{ writes int }

func (c *fakeConn) WriteReg(reg byte, data []byte) error {
	c.writes++
	return nil
}

type fakeBus struct {
	conn   *fakeConn
	closes int
}

func (b *fakeBus) Connect(addr uint16) (pwm.Conn, error) { return b.conn, nil }
func (b *fakeBus) Close() error                          { b.closes++; return nil }

type fakeTransport struct {
	bus     *fakeBus
	opens   int
	openErr error
}

func (t *fakeTransport) Open(sda, scl int) (pwm.Bus, error) {
	t.opens++
	if t.openErr != nil {
		return nil, t.openErr
	}
	return t.bus, nil
}

func boolPtr(b bool) *bool { return &b }

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newStubController(t *testing.T) *Controller {
	t.Helper()
	c, err := New(config.Default(), nil, Options{ForceStub: true, Supported: boolPtr(false)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.afterFn = immediate
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_Stub(t *testing.T) {
	tr := &fakeTransport{bus: &fakeBus{conn: &fakeConn{}}}
	c, err := New(config.Default(), nil, Options{ForceStub: true, Supported: boolPtr(true), Transport: tr})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := c.Stub(); !ok {
		t.Fatalf("expected stub device")
	}
	if tr.opens != 0 {
		t.Fatalf("opens=%d want 0", tr.opens)
	}
}

func TestNew_RealDeviceLifecycle(t *testing.T) {
	tr := &fakeTransport{bus: &fakeBus{conn: &fakeConn{}}}
	c, err := New(config.Default(), nil, Options{Supported: boolPtr(true), Transport: tr})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Stub(); ok {
		t.Fatalf("expected real device")
	}
	if !c.Status().Connected {
		t.Fatalf("not connected")
	}
	before := tr.bus.conn.writes
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	// AllStop wrote every bound channel before the bus was released.
	if got := tr.bus.conn.writes - before; got != len(motor.DefaultBindings().Channels()) {
		t.Fatalf("shutdown writes=%d", got)
	}
	if tr.bus.closes != 1 {
		t.Fatalf("closes=%d want 1", tr.bus.closes)
	}
}

func TestClose_WaitsForRunningCommand(t *testing.T) {
	tr := &fakeTransport{bus: &fakeBus{conn: &fakeConn{}}}
	c, err := New(config.Default(), nil, Options{Supported: boolPtr(true), Transport: tr})
	if err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	cmdErr := make(chan error, 1)
	go func() {
		cmdErr <- c.Do(func(m *motor.Controller) error {
			close(started)
			<-release
			return m.Led0().On(50)
		})
	}()
	<-started

	closed := make(chan error, 1)
	go func() { closed <- c.Close() }()
	select {
	case <-closed:
		t.Fatalf("Close returned while a command was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := <-cmdErr; err != nil {
		t.Fatalf("command: %v", err)
	}
	if err := <-closed; err != nil {
		t.Fatal(err)
	}
	if tr.bus.closes != 1 {
		t.Fatalf("closes=%d want 1", tr.bus.closes)
	}
	err = c.Do(func(m *motor.Controller) error { return m.Led0().On(10) })
	if !errors.Is(err, pwm.ErrNotConnected) {
		t.Fatalf("err=%v want ErrNotConnected after Close", err)
	}
}

func TestNew_TransportFailure(t *testing.T) {
	tr := &fakeTransport{openErr: errors.New("permission denied")}
	_, err := New(config.Default(), nil, Options{Supported: boolPtr(true), Transport: tr})
	if !errors.Is(err, pwm.ErrTransport) {
		t.Fatalf("err=%v want ErrTransport", err)
	}
}

func TestRunDemo(t *testing.T) {
	c := newStubController(t)
	stub, _ := c.Stub()
	err := c.RunDemo(context.Background(), []Demo{DemoLed, DemoDc, DemoServo, DemoStepper}, 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, ch := range c.cfg.Bindings().Channels() {
		if d, _ := stub.Duty(ch); d != pwm.FullOff {
			t.Fatalf("channel %d=%v after demo", ch, d)
		}
	}
	servo := stub.CallsOn(c.cfg.Bindings().Servo.Channel)
	if len(servo) < 3 {
		t.Fatalf("servo calls=%d", len(servo))
	}
}

func TestRunDemo_CancelStillStops(t *testing.T) {
	c := newStubController(t)
	stub, _ := c.Stub()
	c.afterFn = func(time.Duration) <-chan time.Time { return nil }
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.RunDemo(ctx, []Demo{DemoDc}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	b := c.cfg.Bindings().DC
	if d, _ := stub.Duty(b.Enable); d != pwm.FullOff {
		t.Fatalf("enable=%v after cancel", d)
	}
}

func TestRunDemo_Unknown(t *testing.T) {
	c := newStubController(t)
	if err := c.RunDemo(context.Background(), []Demo{"warp"}, 0); err == nil {
		t.Fatalf("expected error")
	}
}
