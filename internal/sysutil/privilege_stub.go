//go:build !linux

package sysutil

// DropPrivileges is a no-op off Linux; the hardware backends only exist
// there.
func DropPrivileges() error { return nil }
