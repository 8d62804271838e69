//go:build rp2040

package main

import "machine"

// statusLED shows the lock state: on while locked, slow blink while idle,
// fast blink while latched in overcurrent.
type statusLED struct {
	pin machine.Pin
	on  bool
}

func newStatusLED(pin machine.Pin) *statusLED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &statusLED{pin: pin}
}

func (l *statusLED) set(on bool) {
	if on != l.on {
		l.pin.Set(on)
		l.on = on
	}
}

// blink drives a square wave from the microsecond clock.
func (l *statusLED) blink(now uint64, halfPeriodUS uint64) {
	l.set((now/halfPeriodUS)%2 == 0)
}
