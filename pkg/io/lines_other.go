//go:build !linux

package io

import "github.com/pkg/errors"

type OutputEnable struct{}

func OpenOutputEnable(chip string, offset int) (*OutputEnable, error) {
	return nil, errors.New("io: gpio unsupported on this platform")
}

func (o *OutputEnable) Set(enabled bool) error { return errors.New("io: gpio unsupported") }
func (o *OutputEnable) Close() error           { return nil }

type Button struct {
	Event chan ButtonEvent
}

func WatchButton(chip string, offset int) (*Button, error) {
	return nil, errors.New("io: gpio unsupported on this platform")
}

func (b *Button) Close() error { return nil }
