package core

// CurrentCalibration maps 12-bit sense amplifier counts to amps:
// amps = (counts - Offset) / CountsPerAmp.
type CurrentCalibration struct {
	Offset       float32 `json:"offset"`
	CountsPerAmp float32 `json:"counts_per_amp"`
}

// DefaultCurrentCalibration is the linear fit of the primary current sense
// path on the reference board.
var DefaultCurrentCalibration = CurrentCalibration{Offset: 80.4, CountsPerAmp: 10.816}

// CurrentMonitor samples the primary current sense input. It is a foreground
// collaborator for telemetry; the overcurrent latch does not depend on it.
type CurrentMonitor struct {
	adc ADCDriver
	cal CurrentCalibration

	last ADCValue
	peak float32
}

// NewCurrentMonitor wraps an ADC driver. A zero CountsPerAmp selects the
// default calibration.
func NewCurrentMonitor(adc ADCDriver, cal CurrentCalibration) *CurrentMonitor {
	if cal.CountsPerAmp == 0 {
		cal = DefaultCurrentCalibration
	}
	return &CurrentMonitor{adc: adc, cal: cal}
}

// Sample takes one reading and returns it in amps.
func (m *CurrentMonitor) Sample() (float32, error) {
	raw, err := m.adc.ReadRaw()
	if err != nil {
		return 0, err
	}
	m.last = raw
	amps := m.cal.Amps(raw)
	if amps > m.peak {
		m.peak = amps
	}
	return amps, nil
}

// Peak returns the largest current seen since the last ResetPeak.
func (m *CurrentMonitor) Peak() float32 {
	return m.peak
}

func (m *CurrentMonitor) ResetPeak() {
	m.peak = 0
}

// Amps converts a 16-bit scaled reading. Readings below the offset give
// negative values.
func (c CurrentCalibration) Amps(raw ADCValue) float32 {
	counts := float32(raw >> 4)
	return (counts - c.Offset) / c.CountsPerAmp
}

// MilliAmps renders amps as whole milliamps for the debug stream.
func MilliAmps(amps float32) int {
	if amps < 0 {
		return int(amps*1000 - 0.5)
	}
	return int(amps*1000 + 0.5)
}
