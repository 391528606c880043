package pwm

import (
	"errors"
	"testing"
)

func TestNewChannel(t *testing.T) {
	for id := 0; id < NumChannels; id++ {
		c, err := NewChannel(id)
		if err != nil {
			t.Fatalf("NewChannel(%d): %v", id, err)
		}
		if c.ID() != id {
			t.Fatalf("ID=%d want %d", c.ID(), id)
		}
	}
	for _, id := range []int{-1, 16, 100} {
		if _, err := NewChannel(id); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("NewChannel(%d) err=%v want ErrOutOfRange", id, err)
		}
	}
}

func TestDutyCycleValidate(t *testing.T) {
	cases := []struct {
		name string
		d    DutyCycle
		ok   bool
	}{
		{"off", FullOff, true},
		{"full on sentinel", FullOn, true},
		{"max", DutyCycle{0, MaxTick}, true},
		{"mid", DutyCycle{100, 2000}, true},
		{"off past max", DutyCycle{0, FullTick + 1}, false},
		{"on past off", DutyCycle{300, 200}, false},
		{"negative", DutyCycle{-1, 10}, false},
		{"sentinel with on tick", DutyCycle{1, FullTick}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.ok && err != nil {
				t.Fatalf("err=%v", err)
			}
			if !tc.ok && !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("err=%v want ErrOutOfRange", err)
			}
		})
	}
}

func TestScaled(t *testing.T) {
	d, err := Percent(50)
	if err != nil {
		t.Fatal(err)
	}
	if d != (DutyCycle{0, 2047}) {
		t.Fatalf("Percent(50)=%v", d)
	}
	d, _ = Scaled(0, 150, 600)
	if d.Off != 150 {
		t.Fatalf("Scaled(0)=%v want off 150", d)
	}
	d, _ = Scaled(100, 150, 600)
	if d.Off != 600 {
		t.Fatalf("Scaled(100)=%v want off 600", d)
	}
	if _, err := Percent(101); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err=%v want ErrOutOfRange", err)
	}
	if _, err := Percent(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err=%v want ErrOutOfRange", err)
	}
}
