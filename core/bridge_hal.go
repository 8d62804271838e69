package core

// Leg identifies one half of the driven bridge.
type Leg uint8

const (
	LegA Leg = iota
	LegC
)

func (l Leg) String() string {
	if l == LegC {
		return "C"
	}
	return "A"
}

// BridgeDriver is the hardware layer under the controller. It owns the two
// phase timer channels, the feedback period capture timer and the overcurrent
// input. Platform code implements it on real peripherals; tests use a mock.
//
// Every method must return without waiting on hardware: the controller calls
// them with interrupts masked, and from the feedback ISR.
type BridgeDriver interface {
	// BeginUpdate suspends commit of compare and period writes. Outputs keep
	// running on the last committed values.
	BeginUpdate()

	// EndUpdate re-enables commit. Staged values take effect together at the
	// next period boundary.
	EndUpdate()

	// SetLegTimings stages period and compare points for one leg.
	SetLegTimings(leg Leg, t ChannelTimings)

	// SetFeedbackDelay stages the compare point, in ticks after a feedback
	// edge, at which the legs are re-synchronised.
	SetFeedbackDelay(ticks uint16)

	// SetPhaseTimersActive runs both legs, or freezes them at the safe idle
	// output level.
	SetPhaseTimersActive(active bool)

	// SetFeedbackSync enables the path by which a feedback edge resets the
	// phase timers.
	SetFeedbackSync(enabled bool)

	// SetFeedbackInterrupt unmasks or masks the feedback capture interrupt.
	SetFeedbackInterrupt(enabled bool)

	// ReadFrequencyDetector returns the most recent feedback period and clears
	// the capture flag. ok is false if nothing was captured since the last
	// read. Unread captures are overwritten, never queued.
	ReadFrequencyDetector() (period uint16, ok bool)

	// ClearFrequencyDetector drops any pending capture.
	ClearFrequencyDetector()

	// OvercurrentActive reads the live level of the fault input.
	OvercurrentActive() bool

	// AckOvercurrentEdge clears the pending edge flag of the fault input.
	AckOvercurrentEdge()
}

// Global singleton used by target code.
var bridgeDriver BridgeDriver

// SetBridgeDriver is called by target-specific code to register its driver.
func SetBridgeDriver(d BridgeDriver) {
	bridgeDriver = d
}

// MustBridge returns the configured driver or panics if missing.
func MustBridge() BridgeDriver {
	if bridgeDriver == nil {
		panic("bridge driver not configured")
	}
	return bridgeDriver
}
