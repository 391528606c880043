package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/Seann-Moser/motorhat/pkg/motor"
	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

const (
	DriverPeriph = "periph"
	DriverGobot  = "gobot"
)

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Actuators ActuatorsConfig `yaml:"actuators"`
	Server    ServerConfig    `yaml:"server"`
}

type DeviceConfig struct {
	Driver      string `yaml:"driver"`
	SDA         string `yaml:"sda"`
	SCL         string `yaml:"scl"`
	Address     uint16 `yaml:"address"`
	FrequencyHz int    `yaml:"frequency_hz"`
	ForceStub   bool   `yaml:"force_stub"`
	// OEPin is the connector position of the expander's output-enable line.
	// Empty leaves it unmanaged.
	OEPin string `yaml:"oe_pin"`
}

type ActuatorsConfig struct {
	DcMotor DcMotorConfig `yaml:"dc_motor"`
	Stepper StepperConfig `yaml:"stepper"`
	Servo   ServoConfig   `yaml:"servo"`
	Led     LedConfig     `yaml:"led"`
}

type DcMotorConfig struct {
	Enable  *int `yaml:"enable"`
	Forward *int `yaml:"forward"`
	Reverse *int `yaml:"reverse"`
}

type StepperConfig struct {
	Coils       []int `yaml:"coils"`
	StepsPerRev int   `yaml:"steps_per_rev"`
	RPM         int   `yaml:"rpm"`
}

type ServoConfig struct {
	Channel *int `yaml:"channel"`
	MinTick int  `yaml:"min_tick"`
	MaxTick int  `yaml:"max_tick"`
}

type LedConfig struct {
	Channel *int `yaml:"channel"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	EStopPin string `yaml:"estop_pin"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intPtr(v int) *int { return &v }

func (c *Config) applyDefaults() {
	def := motor.DefaultBindings()

	if c.Device.Driver == "" {
		c.Device.Driver = DriverPeriph
	}
	if c.Device.SDA == "" {
		c.Device.SDA = pwm.DefaultSDA
	}
	if c.Device.SCL == "" {
		c.Device.SCL = pwm.DefaultSCL
	}
	if c.Device.Address == 0 {
		c.Device.Address = pwm.DefaultAddress
	}
	if c.Device.FrequencyHz == 0 {
		c.Device.FrequencyHz = int(pwm.DefaultFrequency / physic.Hertz)
	}

	dc := &c.Actuators.DcMotor
	if dc.Enable == nil {
		dc.Enable = intPtr(def.DC.Enable.ID())
	}
	if dc.Forward == nil {
		dc.Forward = intPtr(def.DC.Forward.ID())
	}
	if dc.Reverse == nil {
		dc.Reverse = intPtr(def.DC.Reverse.ID())
	}

	st := &c.Actuators.Stepper
	if len(st.Coils) == 0 {
		for _, ch := range def.Stepper.Coils {
			st.Coils = append(st.Coils, ch.ID())
		}
	}
	if st.StepsPerRev == 0 {
		st.StepsPerRev = def.Stepper.StepsPerRev
	}
	if st.RPM == 0 {
		st.RPM = def.Stepper.RPM
	}

	sv := &c.Actuators.Servo
	if sv.Channel == nil {
		sv.Channel = intPtr(def.Servo.Channel.ID())
	}
	if sv.MinTick == 0 && sv.MaxTick == 0 {
		sv.MinTick, sv.MaxTick = def.Servo.MinTick, def.Servo.MaxTick
	}

	if c.Actuators.Led.Channel == nil {
		c.Actuators.Led.Channel = intPtr(def.Led.Channel.ID())
	}

	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0:8080"
	}
}

func (c *Config) validate() error {
	switch c.Device.Driver {
	case DriverPeriph, DriverGobot:
	default:
		return errors.Errorf("device.driver must be %q or %q, got %q", DriverPeriph, DriverGobot, c.Device.Driver)
	}
	if c.Device.Address > 0x7f {
		return errors.Errorf("device.address 0x%x is not a 7-bit address", c.Device.Address)
	}
	hz := physic.Frequency(c.Device.FrequencyHz) * physic.Hertz
	if hz < pwm.MinFrequency || hz > pwm.MaxFrequency {
		return errors.Errorf("device.frequency_hz must be within %s..%s", pwm.MinFrequency, pwm.MaxFrequency)
	}
	if len(c.Actuators.Stepper.Coils) != 4 {
		return errors.Errorf("actuators.stepper.coils needs 4 channels, got %d", len(c.Actuators.Stepper.Coils))
	}
	if err := c.Bindings().Validate(); err != nil {
		return errors.Wrap(err, "actuators")
	}
	return nil
}

// Factory returns the device factory settings.
func (c Config) Factory() pwm.FactoryConfig {
	return pwm.FactoryConfig{
		SDA:       c.Device.SDA,
		SCL:       c.Device.SCL,
		Address:   c.Device.Address,
		Frequency: physic.Frequency(c.Device.FrequencyHz) * physic.Hertz,
	}
}

// Bindings returns the actuator channel bindings.
func (c Config) Bindings() motor.Bindings {
	a := c.Actuators
	b := motor.Bindings{
		DC: motor.DcBinding{
			Enable:  pwm.Channel(*a.DcMotor.Enable),
			Forward: pwm.Channel(*a.DcMotor.Forward),
			Reverse: pwm.Channel(*a.DcMotor.Reverse),
		},
		Stepper: motor.StepperBinding{
			StepsPerRev: a.Stepper.StepsPerRev,
			RPM:         a.Stepper.RPM,
		},
		Servo: motor.ServoBinding{
			Channel: pwm.Channel(*a.Servo.Channel),
			MinTick: a.Servo.MinTick,
			MaxTick: a.Servo.MaxTick,
		},
		Led: motor.LedBinding{Channel: pwm.Channel(*a.Led.Channel)},
	}
	for i := 0; i < len(b.Stepper.Coils) && i < len(a.Stepper.Coils); i++ {
		b.Stepper.Coils[i] = pwm.Channel(a.Stepper.Coils[i])
	}
	return b
}
