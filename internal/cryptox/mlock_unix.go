//go:build linux || darwin

package cryptox

import "golang.org/x/sys/unix"

// Best effort: RLIMIT_MEMLOCK may be tiny in containers.
func lockMemory(b []byte)   { _ = unix.Mlock(b) }
func unlockMemory(b []byte) { _ = unix.Munlock(b) }
