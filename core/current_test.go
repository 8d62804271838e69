package core

import (
	"errors"
	"testing"
)

type fakeADC struct {
	raw ADCValue
	err error
}

func (f *fakeADC) ReadRaw() (ADCValue, error) { return f.raw, f.err }

func TestCurrentCalibration(t *testing.T) {
	cal := DefaultCurrentCalibration
	tests := []struct {
		counts uint16
		wantMA int
	}{
		{360, 25851},
		{904, 76146},
		{80, -37},
	}
	for _, tt := range tests {
		got := MilliAmps(cal.Amps(ADCValue(tt.counts << 4)))
		if d := got - tt.wantMA; d > 1 || d < -1 {
			t.Errorf("counts %d: %d mA, want %d", tt.counts, got, tt.wantMA)
		}
	}
}

func TestCurrentMonitorPeak(t *testing.T) {
	adc := &fakeADC{}
	m := NewCurrentMonitor(adc, CurrentCalibration{})

	for _, counts := range []uint16{200, 900, 400} {
		adc.raw = ADCValue(counts << 4)
		if _, err := m.Sample(); err != nil {
			t.Fatal(err)
		}
	}
	want := DefaultCurrentCalibration.Amps(900 << 4)
	if m.Peak() != want {
		t.Errorf("peak = %v, want %v", m.Peak(), want)
	}
	m.ResetPeak()
	if m.Peak() != 0 {
		t.Error("peak not reset")
	}
}

func TestCurrentMonitorError(t *testing.T) {
	boom := errors.New("adc busy")
	m := NewCurrentMonitor(&fakeADC{err: boom}, DefaultCurrentCalibration)
	if _, err := m.Sample(); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
