package core

// Clock is the monotonic time source the controller reads once per Start and
// Update call. Units are microseconds; a uint64 counter does not wrap within
// the lifetime of the hardware.
type Clock interface {
	Now() uint64
}

type systemClock struct{}

// SystemClock returns the time most recently published by the target with
// SetTime. Targets refresh it from their hardware timer at the top of the
// poll loop.
var SystemClock Clock = systemClock{}

func (systemClock) Now() uint64 {
	return loadSystemTime()
}

// SetTime publishes the current hardware time in microseconds.
func SetTime(us uint64) {
	storeSystemTime(us)
}

// GetTime returns the last published time in microseconds.
func GetTime() uint64 {
	return loadSystemTime()
}

// TicksToNS converts bridge timer ticks to nanoseconds for a timer clocked
// at timerHz.
func TicksToNS(ticks uint32, timerHz uint32) uint32 {
	if timerHz == 0 {
		return 0
	}
	return uint32((uint64(ticks) * 1000000000) / uint64(timerHz))
}
