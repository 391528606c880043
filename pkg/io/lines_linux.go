//go:build linux

package io

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// OutputEnable drives the expander's active-low OE line.
type OutputEnable struct {
	line *gpiocdev.Line
}

// OpenOutputEnable requests the OE line with outputs disabled.
func OpenOutputEnable(chip string, offset int) (*OutputEnable, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer("motorhat-oe"),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "request oe line %d", offset)
	}
	return &OutputEnable{line: l}, nil
}

func (o *OutputEnable) Set(enabled bool) error {
	v := 1
	if enabled {
		v = 0
	}
	return o.line.SetValue(v)
}

// Close disables the outputs and releases the line.
func (o *OutputEnable) Close() error {
	if o == nil || o.line == nil {
		return nil
	}
	_ = o.line.SetValue(1)
	_ = o.line.Reconfigure(gpiocdev.AsInput)
	err := o.line.Close()
	o.line = nil
	return err
}

// Button watches a pulled-up, active-low push button.
type Button struct {
	Event chan ButtonEvent

	mu     sync.Mutex
	line   *gpiocdev.Line
	filter edgeFilter
}

func WatchButton(chip string, offset int) (*Button, error) {
	b := &Button{Event: make(chan ButtonEvent, 4)}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer("motorhat-estop"),
		gpiocdev.WithEventHandler(b.eventHandler),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to request GPIO line")
	}
	b.line = line
	return b, nil
}

func (b *Button) eventHandler(evt gpiocdev.LineEvent) {
	b.mu.Lock()
	ev, ok := b.filter.edge(evt.Type == gpiocdev.LineEventFallingEdge, time.Now())
	b.mu.Unlock()
	if !ok {
		return
	}
	select {
	case b.Event <- ev:
	default:
	}
}

func (b *Button) Close() error {
	if b == nil || b.line == nil {
		return nil
	}
	err := b.line.Close()
	b.line = nil
	return err
}
