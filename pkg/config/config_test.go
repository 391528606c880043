package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"periph.io/x/conn/v3/physic"

	"github.com/Seann-Moser/motorhat/pkg/motor"
	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Device.Driver != DriverPeriph {
		t.Fatalf("driver=%q", cfg.Device.Driver)
	}
	f := cfg.Factory()
	if f.Address != 0x40 || f.Frequency != 60*physic.Hertz || f.SDA != "J8p3" || f.SCL != "J8p5" {
		t.Fatalf("factory=%+v", f)
	}
	if cfg.Bindings() != motor.DefaultBindings() {
		t.Fatalf("bindings=%+v want defaults", cfg.Bindings())
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "motorhat.yaml")
	data := `
device:
  driver: gobot
  address: 0x41
  frequency_hz: 50
  force_stub: true
actuators:
  dc_motor:
    enable: 0
    forward: 1
    reverse: 2
  stepper:
    coils: [3, 4, 5, 6]
    rpm: 60
  servo:
    channel: 7
    min_tick: 100
    max_tick: 500
  led:
    channel: 12
server:
  addr: 127.0.0.1:9000
`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Driver != DriverGobot || !cfg.Device.ForceStub || cfg.Device.Address != 0x41 {
		t.Fatalf("device=%+v", cfg.Device)
	}
	if cfg.Factory().Frequency != 50*physic.Hertz {
		t.Fatalf("frequency=%v", cfg.Factory().Frequency)
	}
	b := cfg.Bindings()
	want := motor.Bindings{
		DC:      motor.DcBinding{Enable: 0, Forward: 1, Reverse: 2},
		Stepper: motor.StepperBinding{Coils: [4]pwm.Channel{3, 4, 5, 6}, StepsPerRev: 200, RPM: 60},
		Servo:   motor.ServoBinding{Channel: 7, MinTick: 100, MaxTick: 500},
		Led:     motor.LedBinding{Channel: 12},
	}
	if b != want {
		t.Fatalf("bindings=%+v want %+v", b, want)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"driver":    "device:\n  driver: wiringpi\n",
		"address":   "device:\n  address: 0x80\n",
		"frequency": "device:\n  frequency_hz: 2000\n",
		"coils":     "actuators:\n  stepper:\n    coils: [1, 2]\n",
		"overlap":   "actuators:\n  led:\n    channel: 8\n",
		"yaml":      "device: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParse_OverlapNamesKey(t *testing.T) {
	_, err := Parse([]byte("actuators:\n  servo:\n    channel: 15\n"))
	if err == nil || !strings.Contains(err.Error(), "actuators") {
		t.Fatalf("err=%v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
