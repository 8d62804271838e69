//go:build !tinygo

package core

// irqState stands in for the saved interrupt mask on the host build.
type irqState uintptr

// enterCritical is a no-op on regular Go. Host tests drive the interrupt entry
// points sequentially, so there is nothing to exclude.
func enterCritical() irqState {
	return 0
}

// exitCritical is a no-op on regular Go.
func exitCritical(irqState) {}
