//go:build rp2040

package main

import "machine"

// overcurrentInput is the latched comparator output from the gate driver
// board. It is active low and pulled up, so a disconnected board reads as
// no fault.
type overcurrentInput struct {
	pin machine.Pin
}

func newOvercurrentInput(pin machine.Pin) *overcurrentInput {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &overcurrentInput{pin: pin}
}

// listen routes falling edges to fn. Call once the controller exists.
func (o *overcurrentInput) listen(fn func()) error {
	return o.pin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		fn()
	})
}

func (o *overcurrentInput) active() bool {
	return !o.pin.Get()
}

// ack has nothing to do here: the machine package clears the GPIO
// interrupt status before the callback runs.
func (o *overcurrentInput) ack() {}
