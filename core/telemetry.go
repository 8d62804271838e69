package core

// Telemetry is a consistent copy of the controller state and counters.
type Telemetry struct {
	State    OperationState
	Mode     ModeKind
	Period   uint16
	Phase    float32
	Swap     bool
	Elapsed  uint64
	Starts   uint32
	Locks    uint32
	Trips    uint32
	Captures uint32
	Ignored  uint32
	OCEdges  uint32
}

// Snapshot copies the controller state under one critical section.
func (c *Controller) Snapshot() Telemetry {
	state := enterCritical()
	defer exitCritical(state)

	t := Telemetry{
		State:    c.st.state,
		Period:   c.st.period,
		Phase:    c.st.phaseSetpoint,
		Swap:     c.st.swap,
		Starts:   c.cnt.starts,
		Locks:    c.cnt.locks,
		Trips:    c.cnt.trips,
		Captures: c.cnt.captures,
		Ignored:  c.cnt.ignored,
		OCEdges:  c.cnt.overcurrentIRQ,
	}
	if c.st.hasMode {
		t.Mode = c.st.mode.Kind
		if now := c.clock.Now(); now > c.st.t0 {
			t.Elapsed = now - c.st.t0
		}
	}
	return t
}

// String renders the single-line form written to the debug stream:
//
//	QCW state=running mode=burst per=498 phase=0.250 swap=0 t=1200 starts=1 locks=1 trips=0 cap=37 ign=0 oc=0
func (t Telemetry) String() string {
	buf := make([]byte, 0, 128)
	buf = append(buf, "QCW state="...)
	buf = append(buf, t.State.String()...)
	buf = append(buf, " mode="...)
	buf = append(buf, t.Mode.String()...)
	buf = append(buf, " per="...)
	buf = appendUint(buf, uint64(t.Period))
	buf = append(buf, " phase="...)
	buf = appendFraction(buf, t.Phase)
	buf = append(buf, " swap="...)
	if t.Swap {
		buf = append(buf, '1')
	} else {
		buf = append(buf, '0')
	}
	buf = append(buf, " t="...)
	buf = appendUint(buf, t.Elapsed)
	buf = append(buf, " starts="...)
	buf = appendUint(buf, uint64(t.Starts))
	buf = append(buf, " locks="...)
	buf = appendUint(buf, uint64(t.Locks))
	buf = append(buf, " trips="...)
	buf = appendUint(buf, uint64(t.Trips))
	buf = append(buf, " cap="...)
	buf = appendUint(buf, uint64(t.Captures))
	buf = append(buf, " ign="...)
	buf = appendUint(buf, uint64(t.Ignored))
	buf = append(buf, " oc="...)
	buf = appendUint(buf, uint64(t.OCEdges))
	return string(buf)
}
