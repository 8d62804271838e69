package core

// ADCValue is a raw ADC reading scaled to 16 bits, whatever the converter
// resolution.
type ADCValue uint16

// ADCDriver is the analog input the current monitor samples.
type ADCDriver interface {
	// ReadRaw performs a one-shot conversion. It may busy-wait for the
	// conversion, so never call it with interrupts masked.
	ReadRaw() (ADCValue, error)
}

// Global singleton used by target code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
