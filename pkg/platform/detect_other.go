//go:build !linux

package platform

import "runtime"

// Detect always reports an unsupported host off Linux.
func Detect() Info {
	return Info{OS: runtime.GOOS, Arch: runtime.GOARCH}
}
