//go:build tinygo

package core

// systemTime is 64 bits wide, which Cortex-M0+ cannot load or store in one
// instruction, so both sides go through a critical section.
var systemTime uint64

func loadSystemTime() uint64 {
	state := enterCritical()
	t := systemTime
	exitCritical(state)
	return t
}

func storeSystemTime(us uint64) {
	state := enterCritical()
	systemTime = us
	exitCritical(state)
}
