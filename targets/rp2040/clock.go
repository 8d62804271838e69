//go:build rp2040

package main

import (
	"qcw/core"
	"runtime/volatile"
	"unsafe"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// bridgeClockHz is the PWM and PIO clock: both run undivided from clk_sys.
const bridgeClockHz = 125000000

// InitClock publishes the boot time so the controller never sees zero.
func InitClock() {
	UpdateSystemTime()
}

// GetHardwareUptime reads the 64-bit microsecond timer.
func GetHardwareUptime() uint64 {
	// High, low, high again: retry if the low word rolled over in between.
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime publishes the hardware time to the core. Called at the
// top of every main loop iteration.
func UpdateSystemTime() {
	core.SetTime(GetHardwareUptime())
}
