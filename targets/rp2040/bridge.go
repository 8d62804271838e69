//go:build rp2040

package main

import (
	"machine"
	"qcw/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Bridge pin assignment. Each leg uses both channels of one PWM slice.
const (
	legAHighPin    = machine.GPIO0 // slice 0 A
	legALowPin     = machine.GPIO1 // slice 0 B
	legCHighPin    = machine.GPIO2 // slice 1 A
	legCLowPin     = machine.GPIO3 // slice 1 B
	feedbackPin    = machine.GPIO6
	overcurrentPin = machine.GPIO7
)

// RP2040Bridge implements core.BridgeDriver on two PWM slices, a PIO
// period counter and a GPIO fault input.
//
// Writes between BeginUpdate and EndUpdate only touch shadow copies.
// EndUpdate loads both slices back to back with interrupts masked; the
// slices' double buffers then switch on their next wrap, so the outputs
// never run a mix of old and new timings within one period.
type RP2040Bridge struct {
	legs [2]*bridgeLeg
	fb   *feedbackCapture
	oc   *overcurrentInput

	staged      [2]core.ChannelTimings
	stagedDelay uint16
	delay       uint16
	updating    bool
	dirty       bool

	active  bool
	sync    bool
	irqOn   bool
	resyncs uint32
}

// NewRP2040Bridge claims the PWM slices, the PIO state machine and the
// fault input. Outputs start frozen low.
func NewRP2040Bridge() (*RP2040Bridge, error) {
	sm, err := rp2pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	fb, err := newFeedbackCapture(sm, feedbackPin)
	if err != nil {
		return nil, err
	}
	return &RP2040Bridge{
		legs: [2]*bridgeLeg{
			core.LegA: newBridgeLeg(0, legAHighPin, legALowPin),
			core.LegC: newBridgeLeg(1, legCHighPin, legCLowPin),
		},
		fb: fb,
		oc: newOvercurrentInput(overcurrentPin),
	}, nil
}

func (b *RP2040Bridge) BeginUpdate() {
	b.updating = true
}

func (b *RP2040Bridge) EndUpdate() {
	b.updating = false
	if !b.dirty {
		return
	}
	b.dirty = false

	state := disableInterrupts()
	for i, leg := range b.legs {
		pos := leg.position()
		leg.write(b.staged[i])
		// Without feedback resets nothing else moves the counter, so keep
		// the leg at the same point of the period under its new offset.
		if b.active && !b.sync {
			leg.seek(pos)
		}
	}
	b.delay = b.stagedDelay
	restoreInterrupts(state)
}

func (b *RP2040Bridge) SetLegTimings(leg core.Leg, t core.ChannelTimings) {
	b.staged[leg] = t
	b.dirty = true
	if !b.updating {
		b.EndUpdate()
	}
}

func (b *RP2040Bridge) SetFeedbackDelay(ticks uint16) {
	b.stagedDelay = ticks
	b.dirty = true
	if !b.updating {
		b.EndUpdate()
	}
}

// SetPhaseTimersActive starts both slices together at the top of the
// bridge period, or stops them and parks the gates low.
func (b *RP2040Bridge) SetPhaseTimersActive(active bool) {
	if active == b.active {
		return
	}
	mask := b.legs[core.LegA].mask() | b.legs[core.LegC].mask()

	if !active {
		pwmEnable.ClearBits(mask)
		for _, leg := range b.legs {
			leg.setOutputs(false)
		}
		b.active = false
		return
	}

	for _, leg := range b.legs {
		leg.seek(0)
		leg.setOutputs(true)
	}
	pwmEnable.SetBits(mask)
	b.active = true
}

func (b *RP2040Bridge) SetFeedbackSync(enabled bool) {
	b.sync = enabled
}

func (b *RP2040Bridge) SetFeedbackInterrupt(enabled bool) {
	b.irqOn = enabled
	b.fb.setInterrupt(enabled)
}

func (b *RP2040Bridge) ReadFrequencyDetector() (uint16, bool) {
	return b.fb.read()
}

func (b *RP2040Bridge) ClearFrequencyDetector() {
	b.fb.clear()
}

func (b *RP2040Bridge) OvercurrentActive() bool {
	return b.oc.active()
}

func (b *RP2040Bridge) AckOvercurrentEdge() {
	b.oc.ack()
}

// onFeedbackEdge runs first in the PIO interrupt and acknowledges the
// capture flag. With sync enabled it re-phases both counters as if the
// period restarted delay ticks after the edge, which is what the feedback
// reset path does. ISR entry latency is covered by the delay compensation
// setting.
//
// It reports whether the controller should see the capture.
func (b *RP2040Bridge) onFeedbackEdge() bool {
	b.fb.ackInterrupt()
	if b.sync && b.active {
		for _, leg := range b.legs {
			if per := uint32(leg.t.Per); per > 0 {
				leg.seek(per - uint32(b.delay)%per)
			}
		}
		b.resyncs++
	}
	if !b.irqOn {
		// Masked after the interrupt was raised: leave the capture for
		// ReadFrequencyDetector polling.
		b.fb.drain()
		return false
	}
	return true
}

// Dropped returns how many captures were overwritten before being read.
func (b *RP2040Bridge) Dropped() uint32 {
	return b.fb.dropped
}

// Resyncs returns how many feedback edges re-phased the counters.
func (b *RP2040Bridge) Resyncs() uint32 {
	return b.resyncs
}
