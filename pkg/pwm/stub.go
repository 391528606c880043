package pwm

import (
	"sync"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

// Call is one SetPwm recorded by StubDevice.
type Call struct {
	Channel Channel
	Duty    DutyCycle
}

// StubDevice accepts every call without doing any I/O. It is handed out when
// no expander is available so the rest of the program runs unmodified.
type StubDevice struct {
	log *zap.SugaredLogger

	mu    sync.Mutex
	calls []Call
	duty  map[Channel]DutyCycle
	rate  physic.Frequency
}

func NewStubDevice(log *zap.SugaredLogger) *StubDevice {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &StubDevice{log: log, duty: make(map[Channel]DutyCycle)}
}

func (s *StubDevice) SetPwm(ch Channel, on, off int) error {
	s.log.Debugw("stub pwm", "channel", int(ch), "on", on, "off", off)
	s.mu.Lock()
	defer s.mu.Unlock()
	d := DutyCycle{On: on, Off: off}
	s.calls = append(s.calls, Call{Channel: ch, Duty: d})
	s.duty[ch] = d
	return nil
}

func (s *StubDevice) SetUpdateRate(freq physic.Frequency) error {
	s.log.Debugw("stub update rate", "frequency", freq.String())
	s.mu.Lock()
	s.rate = freq
	s.mu.Unlock()
	return nil
}

// Calls returns a copy of every SetPwm seen so far.
func (s *StubDevice) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsOn returns the SetPwm calls made on ch.
func (s *StubDevice) CallsOn(ch Channel) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Channel == ch {
			out = append(out, c)
		}
	}
	return out
}

// Duty returns the last duty cycle written to ch.
func (s *StubDevice) Duty(ch Channel) (DutyCycle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.duty[ch]
	return d, ok
}

func (s *StubDevice) UpdateRate() physic.Frequency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Reset clears the call log. Last duty per channel is kept.
func (s *StubDevice) Reset() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}
