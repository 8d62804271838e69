//go:build rp2040

package main

import (
	"machine"
	"qcw/targets/pio"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// feedbackCapture turns the PIO RX FIFO into a single latest-value
// register: older unread periods are overwritten, never queued.
type feedbackCapture struct {
	sm  rp2pio.StateMachine
	pin machine.Pin

	latest  uint16
	ready   bool
	dropped uint32
}

func newFeedbackCapture(sm rp2pio.StateMachine, pin machine.Pin) (*feedbackCapture, error) {
	sm.TryClaim()
	Pio := sm.PIO()

	offset, err := Pio.AddProgram(pio.FeedbackProgram(), pio.FeedbackOrigin)
	if err != nil {
		return nil, err
	}

	pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetInPins(pin, 1)
	cfg.SetJmpPin(pin)
	cfg.SetWrap(offset+pio.FeedbackWrapTarget, offset+pio.FeedbackWrap)
	// Same clock as the PWM slices so counts are bridge ticks.
	cfg.SetClkDivIntFrac(1, 0)

	sm.Init(offset, cfg)
	sm.SetPindirsConsecutive(pin, 1, false)
	Pio.HW().IRQ_INT[0].E.ClearBits(pio.FeedbackIRQEnable)
	Pio.ClearIRQ(1 << pio.FeedbackIRQFlag)
	sm.SetEnabled(true)

	return &feedbackCapture{sm: sm, pin: pin}, nil
}

// setInterrupt masks or unmasks the capture flag on PIO0_IRQ_0. The flag is
// set on every capture whether or not it is routed, so a stale one is
// cleared before unmasking.
func (f *feedbackCapture) setInterrupt(enabled bool) {
	Pio := f.sm.PIO()
	if !enabled {
		Pio.HW().IRQ_INT[0].E.ClearBits(pio.FeedbackIRQEnable)
		return
	}
	Pio.ClearIRQ(1 << pio.FeedbackIRQFlag)
	Pio.HW().IRQ_INT[0].E.SetBits(pio.FeedbackIRQEnable)
}

// ackInterrupt clears the capture flag. The system interrupt is level
// triggered, so this must run before the handler returns.
func (f *feedbackCapture) ackInterrupt() {
	f.sm.PIO().ClearIRQ(1 << pio.FeedbackIRQFlag)
}

// drain moves everything in the RX FIFO into the latest-value register.
func (f *feedbackCapture) drain() {
	for !f.sm.IsRxFIFOEmpty() {
		ticks := pio.FeedbackTicks(f.sm.RxGet())
		if f.ready {
			f.dropped++
		}
		f.latest = ticks
		f.ready = true
	}
}

func (f *feedbackCapture) read() (uint16, bool) {
	f.drain()
	if !f.ready {
		return 0, false
	}
	f.ready = false
	return f.latest, true
}

func (f *feedbackCapture) clear() {
	f.drain()
	f.ready = false
}
