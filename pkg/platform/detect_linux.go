//go:build linux

package platform

import (
	"os"
	"runtime"
	"strings"
)

// Detect inspects the device tree. Only ARM Linux boards whose model names a
// Raspberry Pi are supported.
func Detect() Info {
	info := Info{OS: runtime.GOOS, Arch: runtime.GOARCH}
	info.Model = readModel(modelPaths)
	if runtime.GOARCH != "arm" && runtime.GOARCH != "arm64" {
		return info
	}
	info.Supported = supportedModel(info.Model)
	return info
}

func readModel(paths []string) string {
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		return strings.Trim(strings.TrimSpace(string(b)), "\x00")
	}
	return ""
}
