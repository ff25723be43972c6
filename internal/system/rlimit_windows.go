//go:build windows

package system

// InitResourceLimits is a no-op on Windows; there is no NOFILE rlimit.
func InitResourceLimits() {}
