package core

import "qcw/x/mathx"

// ChannelTimings is the register set of one phase timer channel. The output
// rises at Cmp1 and falls at Cmp2; the counter wraps at Per.
type ChannelTimings struct {
	Per  uint16
	Cmp1 uint16
	Cmp2 uint16
}

// ComputeTimings places a half-period pulse within one period, shifted
// earlier by phase (a fraction of the half period). The period is rounded
// down to even so both halves are equal; the result always satisfies
// Cmp1 < Cmp2 <= Per for period >= 2 and phase in [0, 1].
func ComputeTimings(period uint16, phase float32) (ChannelTimings, error) {
	if period < 2 {
		return ChannelTimings{}, ErrInvalidPeriod
	}
	phase = mathx.Clamp(phase, 0, 1)
	per := period &^ 1
	half := per >> 1
	offset := mathx.RoundU16(float32(half) * phase)
	if offset > half {
		offset = half
	}
	return ChannelTimings{
		Per:  per,
		Cmp1: half - offset,
		Cmp2: per - offset,
	}, nil
}

// LegTimings computes both legs for a bridge period and phase setpoint. Leg A
// switches at phase 0 and leg C at 1-phase; swap exchanges the two, so each
// half of the bridge takes the hard-switched edge in turn. phase is clamped
// to [low, high] first.
func LegTimings(period uint16, phase, low, high float32, swap bool) (a, c ChannelTimings, err error) {
	phase = mathx.Clamp(phase, low, high)
	lead, err := ComputeTimings(period, 0)
	if err != nil {
		return a, c, err
	}
	lag, err := ComputeTimings(period, 1-phase)
	if err != nil {
		return a, c, err
	}
	if swap {
		return lag, lead, nil
	}
	return lead, lag, nil
}

// FeedbackDelay returns the re-synchronisation compare point for a period:
// half a period after the feedback edge, less the path latency. It saturates
// at zero.
func FeedbackDelay(period, compensation uint16) uint16 {
	half := period >> 1
	if compensation >= half {
		return 0
	}
	return half - compensation
}
