package pwm

import (
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
)

const (
	DefaultSDA       = "J8p3"
	DefaultSCL       = "J8p5"
	DefaultAddress   = pca9685.I2CAddr
	DefaultFrequency = 60 * physic.Hertz
)

// FactoryConfig describes where the expander lives.
type FactoryConfig struct {
	// SDA and SCL are connector positions resolved through the pin map.
	SDA       string
	SCL       string
	Address   uint16
	Frequency physic.Frequency
}

func (c *FactoryConfig) setDefaults() {
	if c.SDA == "" {
		c.SDA = DefaultSDA
	}
	if c.SCL == "" {
		c.SCL = DefaultSCL
	}
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	if c.Frequency == 0 {
		c.Frequency = DefaultFrequency
	}
}

// PinMap resolves a connector position to a processor pin number.
type PinMap func(connector string) (int, error)

type FactoryOption func(*Factory)

// WithPlatform tells the factory whether it runs on the supported board.
func WithPlatform(supported bool) FactoryOption {
	return func(f *Factory) { f.supported = supported }
}

func WithPinMap(pins PinMap) FactoryOption {
	return func(f *Factory) { f.pins = pins }
}

func WithLogger(log *zap.SugaredLogger) FactoryOption {
	return func(f *Factory) { f.log = log }
}

// Factory hands out a Device: a RealDevice when the platform supports it,
// a StubDevice otherwise. It exclusively owns the bus until Dispose.
type Factory struct {
	cfg       FactoryConfig
	transport Transport
	supported bool
	pins      PinMap
	log       *zap.SugaredLogger

	sda, scl int

	bus      Bus
	device   *RealDevice
	disposed bool
}

func NewFactory(cfg FactoryConfig, transport Transport, opts ...FactoryOption) (*Factory, error) {
	cfg.setDefaults()
	f := &Factory{
		cfg:       cfg,
		transport: transport,
		pins:      defaultPin,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = zap.NewNop().Sugar()
	}

	var err error
	if f.sda, err = f.pins(cfg.SDA); err != nil {
		return nil, errors.Wrapf(err, "resolve sda pin %q", cfg.SDA)
	}
	if f.scl, err = f.pins(cfg.SCL); err != nil {
		return nil, errors.Wrapf(err, "resolve scl pin %q", cfg.SCL)
	}
	return f, nil
}

// GetDevice returns the device to drive. forceStub, or an unsupported
// platform, always yields a StubDevice without touching the transport.
//
// Failing to open the bus aborts immediately with ErrTransport rather than
// handing back a device that would only fail on first use.
func (f *Factory) GetDevice(forceStub bool) (Device, error) {
	if forceStub || !f.supported {
		f.log.Infow("using stub pwm device", "forced", forceStub, "supported", f.supported)
		return NewStubDevice(f.log.Named("stub")), nil
	}
	if f.disposed {
		return nil, errors.Wrap(ErrNotConnected, "factory disposed")
	}
	if f.device != nil {
		return f.device, nil
	}
	if f.transport == nil {
		return nil, errors.Wrap(ErrTransport, "no transport configured")
	}

	f.log.Infow("opening bus", "sda", f.sda, "scl", f.scl)
	bus, err := f.transport.Open(f.sda, f.scl)
	if err != nil {
		f.log.Errorw("failed to open bus, missing permissions?", "error", err)
		return nil, transportErr(err, "open bus")
	}
	conn, err := bus.Connect(f.cfg.Address)
	if err != nil {
		_ = bus.Close()
		return nil, transportErr(err, "connect to 0x%02x", f.cfg.Address)
	}

	f.log.Infow("creating pca9685 device", "address", f.cfg.Address, "frequency", f.cfg.Frequency.String())
	dev := NewRealDevice(conn, f.log.Named("pca9685"))
	if err := dev.SetUpdateRate(f.cfg.Frequency); err != nil {
		_ = bus.Close()
		return nil, err
	}
	f.bus = bus
	f.device = dev
	return dev, nil
}

// IsConnected reports whether a real device is configured and not disposed.
func (f *Factory) IsConnected() bool {
	return f.device != nil && f.device.State() == Connected
}

// Dispose releases the bus. Calls after the first are no-ops.
func (f *Factory) Dispose() error {
	if f.disposed {
		return nil
	}
	f.disposed = true
	if f.device != nil {
		f.device.dispose()
	}
	if f.bus == nil {
		return nil
	}
	bus := f.bus
	f.bus = nil
	if err := bus.Close(); err != nil {
		return transportErr(err, "close bus")
	}
	f.log.Info("bus released")
	return nil
}

// Use obtains a device from f, runs fn and disposes f on every exit path,
// panics included.
func Use(f *Factory, forceStub bool, fn func(Device) error) (err error) {
	defer func() {
		if derr := f.Dispose(); derr != nil && err == nil {
			err = derr
		}
	}()
	dev, err := f.GetDevice(forceStub)
	if err != nil {
		return err
	}
	return fn(dev)
}

// headerI2CPins covers the bus pins of the 40-pin header so the factory works
// without a full pin map.
var headerI2CPins = map[string]int{
	"J8p3":  2,
	"J8p5":  3,
	"J8p27": 0,
	"J8p28": 1,
}

func defaultPin(connector string) (int, error) {
	if n, ok := headerI2CPins[connector]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(connector)
	if err != nil {
		return 0, errors.Errorf("unknown pin %q", connector)
	}
	return n, nil
}
