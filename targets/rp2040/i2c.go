//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/ina260"
)

const (
	busI2CSDA  = machine.GPIO4
	busI2CSCL  = machine.GPIO5
	busI2CFreq = 400000
)

// busMonitor reads DC bus voltage and current from an INA260 on I2C0. The
// board may be built without it; a missing device disables the readings.
type busMonitor struct {
	dev     ina260.Device
	present bool
}

func newBusMonitor() *busMonitor {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		SDA:       busI2CSDA,
		SCL:       busI2CSCL,
		Frequency: busI2CFreq,
	})
	m := &busMonitor{dev: ina260.New(bus)}
	if err != nil {
		return m
	}
	if !m.dev.Connected() {
		return m
	}
	m.dev.Configure(ina260.Config{
		AverageMode:     ina260.AVGMODE_16,
		VoltConvTime:    ina260.CONVTIME_1100USEC,
		CurrentConvTime: ina260.CONVTIME_1100USEC,
		Mode:            ina260.MODE_CONTINUOUS | ina260.MODE_VOLTAGE | ina260.MODE_CURRENT,
	})
	m.present = true
	return m
}

// read returns bus millivolts and milliamps. ok is false without a device.
func (m *busMonitor) read() (mv, ma int32, ok bool) {
	if !m.present {
		return 0, 0, false
	}
	return m.dev.Voltage() / 1000, m.dev.Current() / 1000, true
}
