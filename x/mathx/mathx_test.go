package mathx

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
		{0.05, 0.1, 0.9, 0.1},
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestAbsDiffUnsigned(t *testing.T) {
	if got := AbsDiff(uint16(495), uint16(500)); got != 5 {
		t.Errorf("AbsDiff(495, 500) = %d, want 5", got)
	}
	if got := AbsDiff(uint16(510), uint16(500)); got != 10 {
		t.Errorf("AbsDiff(510, 500) = %d, want 10", got)
	}
	if !Within(uint16(600), uint16(500), uint16(100)) {
		t.Error("600 should be within 100 of 500")
	}
	if Within(uint16(620), uint16(500), uint16(100)) {
		t.Error("620 should not be within 100 of 500")
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0.2, 0.8, 0, 1000); got != 0.2 {
		t.Errorf("Lerp at start = %v, want 0.2", got)
	}
	if got := Lerp(0.2, 0.8, 1000, 1000); got != 0.8 {
		t.Errorf("Lerp at end = %v, want 0.8", got)
	}
	if got := Lerp(0.2, 0.8, 5000, 1000); got != 0.8 {
		t.Errorf("Lerp past end = %v, want 0.8", got)
	}
	if got := Lerp(0, 1, 250, 1000); got != 0.25 {
		t.Errorf("Lerp quarter = %v, want 0.25", got)
	}
	if got := Lerp(0.3, 0.9, 10, 0); got != 0.9 {
		t.Errorf("Lerp with zero total = %v, want 0.9", got)
	}
}

func TestRoundU16(t *testing.T) {
	tests := []struct {
		in   float32
		want uint16
	}{
		{0, 0},
		{-3, 0},
		{124.4, 124},
		{124.5, 125},
		{70000, 65535},
	}
	for _, tc := range tests {
		if got := RoundU16(tc.in); got != tc.want {
			t.Errorf("RoundU16(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
