package io

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev/device/rpi"
)

// DefaultChip is the gpiochip carrying the 40-pin header lines.
const DefaultChip = "gpiochip0"

// Pin resolves a header position ("J8p3") or GPIO name ("GPIO2") to its BCM
// number.
func Pin(connector string) (int, error) {
	return rpi.Pin(connector)
}

type busPins struct {
	sda, scl int
}

var i2cBuses = map[busPins]int{
	{rpi.GPIO2, rpi.GPIO3}: 1,
	{rpi.J8p27, rpi.J8p28}: 0,
}

// BusNumber returns the /dev/i2c-N bus routed to the given pins.
func BusNumber(sda, scl int) (int, error) {
	n, ok := i2cBuses[busPins{sda, scl}]
	if !ok {
		return 0, errors.Errorf("no i2c bus on sda=GPIO%d scl=GPIO%d", sda, scl)
	}
	return n, nil
}
