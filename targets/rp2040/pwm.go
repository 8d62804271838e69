//go:build rp2040

package main

import (
	"machine"
	"qcw/core"
	"runtime/volatile"
	"unsafe"
)

// RP2040 PWM peripheral memory map. Each slice has five registers; the
// enable bits of all slices are aliased in EN so both legs start on the
// same clock edge.
const (
	pwmBase       = 0x40050000
	pwmSliceSize  = 0x14
	pwmEN         = pwmBase + 0xa0
	pwmCSR_B_INV  = 1 << 3
	pwmDIV_INTPos = 4
)

type pwmSliceRegs struct {
	CSR volatile.Register32
	DIV volatile.Register32
	CTR volatile.Register32
	CC  volatile.Register32
	TOP volatile.Register32
}

var pwmEnable = (*volatile.Register32)(unsafe.Pointer(uintptr(pwmEN)))

func pwmSlice(n uint8) *pwmSliceRegs {
	return (*pwmSliceRegs)(unsafe.Pointer(uintptr(pwmBase + uint32(n)*pwmSliceSize)))
}

// bridgeLeg drives one half bridge from a PWM slice: channel A is the high
// side, channel B the inverted low side. The slice counts 0..Per-1 and is
// high while the counter is below the pulse width, so a leg pulse that
// rises at Cmp1 is produced by running the counter Cmp1 ticks behind the
// bridge period.
type bridgeLeg struct {
	slice uint8
	regs  *pwmSliceRegs
	high  machine.Pin
	low   machine.Pin

	t core.ChannelTimings // last committed
}

func newBridgeLeg(slice uint8, high, low machine.Pin) *bridgeLeg {
	l := &bridgeLeg{slice: slice, regs: pwmSlice(slice), high: high, low: low}
	l.regs.CSR.Set(pwmCSR_B_INV)
	l.regs.DIV.Set(1 << pwmDIV_INTPos)
	l.setOutputs(false)
	return l
}

func (l *bridgeLeg) mask() uint32 {
	return 1 << l.slice
}

// write loads TOP and both compare values. The hardware holds them in its
// double buffer until the counter next wraps.
func (l *bridgeLeg) write(t core.ChannelTimings) {
	width := uint32(t.Cmp2 - t.Cmp1)
	l.regs.TOP.Set(uint32(t.Per - 1))
	l.regs.CC.Set(width | width<<16)
	l.t = t
}

// position returns where in the bridge period the leg currently is.
func (l *bridgeLeg) position() uint32 {
	per := uint32(l.t.Per)
	if per == 0 {
		return 0
	}
	return (l.regs.CTR.Get() + uint32(l.t.Cmp1)) % per
}

// seek sets the counter so the leg is at pos ticks into the bridge period.
func (l *bridgeLeg) seek(pos uint32) {
	per := uint32(l.t.Per)
	if per == 0 {
		return
	}
	l.regs.CTR.Set((pos%per + per - uint32(l.t.Cmp1)) % per)
}

// setOutputs hands the pins to the PWM slice, or parks both gates low.
func (l *bridgeLeg) setOutputs(pwm bool) {
	for _, pin := range [2]machine.Pin{l.high, l.low} {
		if pwm {
			pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
			continue
		}
		pin.Low()
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
}
