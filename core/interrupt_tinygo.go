//go:build tinygo

package core

import "runtime/interrupt"

// irqState is the interrupt mask saved on entry to a critical section.
type irqState = interrupt.State

// enterCritical masks all interrupts and returns the previous mask. Sections
// nest: an ISR that enters one restores its own caller's mask on exit.
func enterCritical() irqState {
	return interrupt.Disable()
}

// exitCritical restores the mask saved by enterCritical.
func exitCritical(state irqState) {
	interrupt.Restore(state)
}
