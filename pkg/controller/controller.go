package controller

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Seann-Moser/motorhat/pkg/config"
	"github.com/Seann-Moser/motorhat/pkg/io"
	"github.com/Seann-Moser/motorhat/pkg/motor"
	"github.com/Seann-Moser/motorhat/pkg/platform"
	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

type Options struct {
	// ForceStub hands out a stub device regardless of the platform.
	ForceStub bool
	// Supported overrides platform detection when set.
	Supported *bool
	// Transport overrides the transport chosen by device.driver.
	Transport pwm.Transport
}

// Controller owns the device lifecycle and funnels every actuator command
// through one lock, so commands from the CLI, the HTTP API and the e-stop
// never overlap on the bus.
type Controller struct {
	cfg config.Config
	log *zap.SugaredLogger

	factory *pwm.Factory
	device  pwm.Device
	oe      *io.OutputEnable

	mu     sync.Mutex
	motors *motor.Controller

	closeOnce sync.Once
	afterFn   func(time.Duration) <-chan time.Time
}

func New(cfg config.Config, log *zap.SugaredLogger, opts Options) (*Controller, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	transport := opts.Transport
	if transport == nil {
		transport = TransportFor(cfg.Device.Driver)
	}
	supported := false
	if opts.Supported != nil {
		supported = *opts.Supported
	} else {
		info := platform.Detect()
		log.Infow("platform", "os", info.OS, "arch", info.Arch, "model", info.Model, "supported", info.Supported)
		supported = info.Supported
	}

	factory, err := pwm.NewFactory(cfg.Factory(), transport,
		pwm.WithPlatform(supported),
		pwm.WithPinMap(io.Pin),
		pwm.WithLogger(log.Named("factory")),
	)
	if err != nil {
		return nil, err
	}
	dev, err := factory.GetDevice(opts.ForceStub || cfg.Device.ForceStub)
	if err != nil {
		_ = factory.Dispose()
		return nil, errors.Wrap(err, "get pwm device")
	}

	c := &Controller{
		cfg:     cfg,
		log:     log,
		factory: factory,
		device:  dev,
		afterFn: time.After,
	}
	c.motors = motor.NewController(dev, cfg.Bindings(), motor.WithLogger(log.Named("motor")))
	if err := c.motors.Init(); err != nil {
		_ = factory.Dispose()
		return nil, errors.Wrap(err, "init motor controller")
	}

	if cfg.Device.OEPin != "" && factory.IsConnected() {
		if err := c.enableOutputs(cfg.Device.OEPin); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// TransportFor returns the bus transport for a device.driver value.
func TransportFor(driver string) pwm.Transport {
	if driver == config.DriverGobot {
		return io.GobotTransport{}
	}
	return io.PeriphTransport{}
}

func (c *Controller) enableOutputs(connector string) error {
	pin, err := io.Pin(connector)
	if err != nil {
		return errors.Wrapf(err, "oe pin %q", connector)
	}
	oe, err := io.OpenOutputEnable(io.DefaultChip, pin)
	if err != nil {
		return err
	}
	c.oe = oe
	return oe.Set(true)
}

// Do runs fn with exclusive access to the motor controller.
func (c *Controller) Do(fn func(m *motor.Controller) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.motors)
}

// Stop cuts power to every actuator.
func (c *Controller) Stop() error {
	return c.Do(func(m *motor.Controller) error {
		return m.AllStop()
	})
}

// Stub returns the stub device when one is in use.
func (c *Controller) Stub() (*pwm.StubDevice, bool) {
	s, ok := c.device.(*pwm.StubDevice)
	return s, ok
}

// Close stops every actuator and releases the bus. It holds the command lock
// throughout, so no command runs against a released bus. It is safe to call
// more than once.
func (c *Controller) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.Do(func(m *motor.Controller) error {
			var result *multierror.Error
			if serr := m.AllStop(); serr != nil {
				c.log.Errorw("all stop during shutdown", "error", serr)
				result = multierror.Append(result, serr)
			}
			if c.oe != nil {
				if oerr := c.oe.Close(); oerr != nil {
					result = multierror.Append(result, oerr)
				}
			}
			if derr := c.factory.Dispose(); derr != nil {
				c.log.Errorw("dispose device", "error", derr)
				result = multierror.Append(result, derr)
			}
			return result.ErrorOrNil()
		})
	})
	return err
}

// WatchEStop stops every actuator whenever the configured button is pressed,
// until ctx is done.
func (c *Controller) WatchEStop(ctx context.Context, connector string) error {
	pin, err := io.Pin(connector)
	if err != nil {
		return errors.Wrapf(err, "estop pin %q", connector)
	}
	b, err := io.WatchButton(io.DefaultChip, pin)
	if err != nil {
		return err
	}
	go func() {
		defer b.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-b.Event:
				if !ev.Pressed {
					continue
				}
				c.log.Warn("emergency stop pressed")
				if err := c.Stop(); err != nil {
					c.log.Errorw("emergency stop", "error", err)
				}
			}
		}
	}()
	return nil
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.afterFn(d):
		return nil
	}
}
