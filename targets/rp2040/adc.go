//go:build rp2040

package main

import (
	"machine"
	"qcw/core"
)

const currentSensePin = machine.ADC0 // GPIO26

// RpAdcDriver implements core.ADCDriver on one TinyGo ADC input.
type RpAdcDriver struct {
	adc machine.ADC
}

// NewRPAdcDriver powers up the ADC and configures the sense pin.
func NewRPAdcDriver(pin machine.Pin) (*RpAdcDriver, error) {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return nil, err
	}
	return &RpAdcDriver{adc: adc}, nil
}

// ReadRaw returns a one-shot sample. TinyGo scales the 12-bit result to
// 16 bits.
func (d *RpAdcDriver) ReadRaw() (core.ADCValue, error) {
	return core.ADCValue(d.adc.Get()), nil
}

// dieTemperature returns the RP2040 internal sensor reading in
// milli-degrees Celsius.
func dieTemperature() int32 {
	return machine.ReadTemperature()
}
