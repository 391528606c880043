package controller

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Seann-Moser/motorhat/pkg/motor"
	"github.com/Seann-Moser/motorhat/pkg/pwm"
)

type Status struct {
	Stub        bool             `json:"stub"`
	Connected   bool             `json:"connected"`
	Initialized bool             `json:"initialized"`
	DcDirection string           `json:"dc_direction,omitempty"`
	Channels    map[int]DutyJSON `json:"channels,omitempty"`
}

type DutyJSON struct {
	On  int `json:"on"`
	Off int `json:"off"`
}

type dcRequest struct {
	Speed     int    `json:"speed"`
	Direction string `json:"direction"`
	Stop      bool   `json:"stop"`
}

type servoRequest struct {
	Angle int `json:"angle"`
}

type ledRequest struct {
	Brightness int `json:"brightness"`
}

type stepperRequest struct {
	Steps   *int     `json:"steps"`
	Degrees *float64 `json:"degrees"`
}

// Router returns the HTTP API.
func (c *Controller) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", c.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/dc", c.handleDc).Methods(http.MethodPost)
	r.HandleFunc("/api/servo", c.handleServo).Methods(http.MethodPost)
	r.HandleFunc("/api/led", c.handleLed).Methods(http.MethodPost)
	r.HandleFunc("/api/stepper", c.handleStepper).Methods(http.MethodPost)
	r.HandleFunc("/api/stop", c.handleStop).Methods(http.MethodPost)
	return r
}

// StartServer serves the API on addr until ctx is done. Request contexts are
// cancelled with ctx, and StartServer returns only once in-flight handlers
// have finished.
func (c *Controller) StartServer(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	return c.serve(ctx, srv, srv.ListenAndServe)
}

func (c *Controller) serve(ctx context.Context, srv *http.Server, listen func() error) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()
	c.log.Infow("server running", "addr", srv.Addr)
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-done; err != nil {
		c.log.Warnw("server shutdown", "error", err)
	}
	return nil
}

func (c *Controller) Status() Status {
	var st Status
	_ = c.Do(func(m *motor.Controller) error {
		st.Initialized = m.Initialized()
		st.Connected = c.factory.IsConnected()
		if dir, ok := m.DcMotor().Direction(); ok {
			st.DcDirection = dir.String()
		}
		return nil
	})
	if stub, ok := c.Stub(); ok {
		st.Stub = true
		st.Channels = make(map[int]DutyJSON)
		for _, ch := range c.cfg.Bindings().Channels() {
			if d, ok := stub.Duty(ch); ok {
				st.Channels[ch.ID()] = DutyJSON{On: d.On, Off: d.Off}
			}
		}
	}
	return st
}

func (c *Controller) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Status())
}

func (c *Controller) handleDc(w http.ResponseWriter, r *http.Request) {
	var req dcRequest
	if !decode(w, r, &req) {
		return
	}
	c.reply(w, c.Do(func(m *motor.Controller) error {
		if req.Stop {
			return m.DcMotor().Stop()
		}
		dir, err := motor.ParseDirection(req.Direction)
		if err != nil {
			return err
		}
		return m.DcMotor().Go(req.Speed, dir)
	}))
}

func (c *Controller) handleServo(w http.ResponseWriter, r *http.Request) {
	var req servoRequest
	if !decode(w, r, &req) {
		return
	}
	c.reply(w, c.Do(func(m *motor.Controller) error {
		return m.Servo().MoveTo(req.Angle)
	}))
}

func (c *Controller) handleLed(w http.ResponseWriter, r *http.Request) {
	var req ledRequest
	if !decode(w, r, &req) {
		return
	}
	c.reply(w, c.Do(func(m *motor.Controller) error {
		return m.Led0().On(req.Brightness)
	}))
}

// handleStepper holds the command lock for the whole rotation. A client
// disconnect stops further steps.
func (c *Controller) handleStepper(w http.ResponseWriter, r *http.Request) {
	var req stepperRequest
	if !decode(w, r, &req) {
		return
	}
	if (req.Steps == nil) == (req.Degrees == nil) {
		http.Error(w, "exactly one of steps or degrees is required", http.StatusBadRequest)
		return
	}
	c.reply(w, c.Do(func(m *motor.Controller) error {
		s := m.StepperMotor()
		var steps int
		if req.Degrees != nil {
			steps = s.StepsFor(*req.Degrees)
		} else {
			steps = *req.Steps
		}
		return s.RotateContext(r.Context(), steps, nil)
	}))
}

func (c *Controller) handleStop(w http.ResponseWriter, r *http.Request) {
	c.reply(w, c.Stop())
}

func (c *Controller) reply(w http.ResponseWriter, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, c.Status())
		return
	}
	c.log.Warnw("command failed", "error", err)
	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pwm.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, pwm.ErrNotInitialized), errors.Is(err, pwm.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, pwm.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
