package core

import "qcw/x/mathx"

// OperationState is the controller state. Exactly one holds at any time.
type OperationState uint8

const (
	StateIdle OperationState = iota
	StateLocking
	StateRunning
	StateRunningOpenLoop
	StateOvercurrent
)

func (s OperationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLocking:
		return "locking"
	case StateRunning:
		return "running"
	case StateRunningOpenLoop:
		return "running_open_loop"
	case StateOvercurrent:
		return "overcurrent"
	default:
		return "unknown"
	}
}

// ModeKind selects the operating intent of a run.
type ModeKind uint8

const (
	ModeTestClosedLoop ModeKind = iota + 1
	ModeTestOpenLoop
	ModeBurst
	ModeRamp
)

func (k ModeKind) String() string {
	switch k {
	case ModeTestClosedLoop:
		return "test_closed_loop"
	case ModeTestOpenLoop:
		return "test_open_loop"
	case ModeBurst:
		return "burst"
	case ModeRamp:
		return "ramp"
	default:
		return "none"
	}
}

// RunMode is the commanded run. Phase is the fixed phase, or the ramp start;
// PhaseEnd is only read for ModeRamp. Duration is in Clock units.
type RunMode struct {
	Kind     ModeKind
	Phase    float32
	PhaseEnd float32
	Duration uint64
}

// TestClosedLoop runs feedback-synchronised from the first cycle, without
// waiting for lock.
func TestClosedLoop(phase float32, duration uint64) RunMode {
	return RunMode{Kind: ModeTestClosedLoop, Phase: phase, PhaseEnd: phase, Duration: duration}
}

// TestOpenLoop runs at the startup period with no feedback synchronisation.
func TestOpenLoop(phase float32, duration uint64) RunMode {
	return RunMode{Kind: ModeTestOpenLoop, Phase: phase, PhaseEnd: phase, Duration: duration}
}

// Burst acquires lock, then holds a constant phase until the duration ends.
func Burst(phase float32, duration uint64) RunMode {
	return RunMode{Kind: ModeBurst, Phase: phase, PhaseEnd: phase, Duration: duration}
}

// Ramp acquires lock, then moves the phase linearly from start to end over
// the duration.
func Ramp(start, end float32, duration uint64) RunMode {
	return RunMode{Kind: ModeRamp, Phase: start, PhaseEnd: end, Duration: duration}
}

// Validate rejects unknown kinds and phases outside [0, 1].
func (m RunMode) Validate() error {
	switch m.Kind {
	case ModeTestClosedLoop, ModeTestOpenLoop, ModeBurst, ModeRamp:
	default:
		return ErrInvalidMode
	}
	if !validFraction(m.Phase) {
		return ErrInvalidMode
	}
	if m.Kind == ModeRamp && !validFraction(m.PhaseEnd) {
		return ErrInvalidMode
	}
	return nil
}

// needsLock reports whether the run must acquire lock before running.
func (m RunMode) needsLock() bool {
	return m.Kind == ModeBurst || m.Kind == ModeRamp
}

// closedLoop reports whether the run uses feedback synchronisation.
func (m RunMode) closedLoop() bool {
	return m.Kind != ModeTestOpenLoop
}

// phaseAt returns the phase setpoint at elapsed time since the run began.
func (m RunMode) phaseAt(elapsed uint64) float32 {
	if m.Kind != ModeRamp {
		return m.Phase
	}
	return mathx.Lerp(m.Phase, m.PhaseEnd, elapsed, m.Duration)
}

func validFraction(f float32) bool {
	// NaN fails both comparisons.
	return f >= 0 && f <= 1
}
