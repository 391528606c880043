// Package platform tells the device factory whether it is running on a board
// that can carry the motor hat.
package platform

import "strings"

// modelPaths are where the device tree exposes the board model.
var modelPaths = []string{
	"/sys/firmware/devicetree/base/model",
	"/proc/device-tree/model",
}

// Info describes the host.
type Info struct {
	OS        string
	Arch      string
	Model     string
	Supported bool
}

// supportedModel reports whether a device-tree model string names a
// Raspberry Pi.
func supportedModel(model string) bool {
	model = strings.Trim(strings.TrimSpace(model), "\x00")
	return strings.HasPrefix(model, "Raspberry Pi")
}
