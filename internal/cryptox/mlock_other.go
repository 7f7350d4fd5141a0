//go:build !linux && !darwin

package cryptox

func lockMemory([]byte)   {}
func unlockMemory([]byte) {}
