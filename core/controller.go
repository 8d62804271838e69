package core

import "qcw/x/mathx"

// controllerState is the record shared between the foreground loop and the
// two interrupt handlers. Access only inside enterCritical/exitCritical.
type controllerState struct {
	state         OperationState
	mode          RunMode
	hasMode       bool
	t0            uint64
	period        uint16
	phaseSetpoint float32

	swap         bool
	cycleCount   uint16
	lastFeedback uint64
}

type controllerCounters struct {
	starts         uint32
	locks          uint32
	trips          uint32
	captures       uint32
	ignored        uint32
	overcurrentIRQ uint32
}

// Controller drives the resonant bridge: it brings the phase timers up at the
// startup period, locks onto the feedback period and keeps the outputs
// synchronised to it until the run ends or the overcurrent input trips.
type Controller struct {
	hw    BridgeDriver
	clock Clock
	cfg   Config

	initialized bool
	st          controllerState
	cnt         controllerCounters
}

// NewController binds a controller to its hardware and time source. Init must
// be called before Start.
func NewController(hw BridgeDriver, clock Clock) *Controller {
	if clock == nil {
		clock = SystemClock
	}
	return &Controller{hw: hw, clock: clock}
}

// Config returns the active configuration.
func (c *Controller) Config() Config {
	state := enterCritical()
	defer exitCritical(state)
	return c.cfg
}

// Init validates cfg, stores it and puts the hardware in the safe state:
// outputs frozen, feedback interrupt masked, feedback sync off. cfg is used
// as given; start from DefaultConfig or LoadConfig for defaults. It may be
// called again only while Idle.
func (c *Controller) Init(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	state := enterCritical()
	defer exitCritical(state)

	if c.initialized && c.st.state != StateIdle {
		return ErrBusy
	}

	c.cfg = cfg
	c.st = controllerState{state: StateIdle, period: cfg.StartupPeriod}
	c.safeOutputs()
	c.hw.ClearFrequencyDetector()
	c.initialized = true
	return nil
}

// Start begins a run from Idle. Burst and Ramp enter Locking, TestClosedLoop
// runs synchronised immediately and TestOpenLoop runs at the startup period.
// Any other state yields ErrBusy. If the overcurrent input is active the
// controller latches Overcurrent and Start also returns ErrBusy.
func (c *Controller) Start(mode RunMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	state := enterCritical()
	defer exitCritical(state)

	if !c.initialized {
		return ErrNotInitialized
	}
	now := c.clock.Now()
	if c.st.state != StateIdle {
		RecordEvent(EvtStartReject, c.st.state, now, uint32(mode.Kind))
		return ErrBusy
	}

	c.st.mode = mode
	c.st.hasMode = true
	if c.hw.OvercurrentActive() {
		c.trip(now)
		return ErrBusy
	}

	c.st.t0 = now
	c.st.period = c.cfg.StartupPeriod
	c.st.phaseSetpoint = mode.phaseAt(0)
	c.st.swap = false
	c.st.cycleCount = 0
	c.st.lastFeedback = now

	if err := c.program(); err != nil {
		c.stopLocked()
		return err
	}
	c.hw.SetPhaseTimersActive(true)

	switch {
	case !mode.closedLoop():
		c.st.state = StateRunningOpenLoop
	case mode.needsLock():
		c.hw.ClearFrequencyDetector()
		c.st.state = StateLocking
	default:
		c.hw.ClearFrequencyDetector()
		c.hw.SetFeedbackSync(true)
		c.hw.SetFeedbackInterrupt(true)
		c.st.state = StateRunning
	}

	c.cnt.starts++
	RecordEvent(EvtStart, c.st.state, now, uint32(mode.Kind))
	return nil
}

// Update advances the state machine. Call it from the foreground loop as
// often as possible; it never blocks.
func (c *Controller) Update() {
	state := enterCritical()
	defer exitCritical(state)

	if !c.initialized || !c.runningLocked() {
		return
	}

	now := c.clock.Now()
	if c.hw.OvercurrentActive() {
		c.trip(now)
		return
	}

	elapsed := now - c.st.t0
	if now < c.st.t0 {
		elapsed = 0
	}
	if elapsed >= c.st.mode.Duration {
		c.stop(now, StopDuration)
		return
	}

	switch c.st.state {
	case StateLocking:
		measured, ok := c.hw.ReadFrequencyDetector()
		if !ok || measured < c.cfg.MinPeriod {
			return
		}
		if mathx.Within(measured, c.cfg.StartupPeriod, c.cfg.AllowedPeriodDeviation) {
			c.lock(now, elapsed, measured)
		}

	case StateRunning:
		timeout := uint64(c.cfg.FeedbackTimeout)
		if timeout > 0 && now > c.st.lastFeedback && now-c.st.lastFeedback > timeout {
			c.stop(now, StopFeedbackLost)
			return
		}
		c.st.phaseSetpoint = c.st.mode.phaseAt(elapsed)
	}
}

// lock adopts the measured period and hands the timers to the feedback ISR.
func (c *Controller) lock(now, elapsed uint64, measured uint16) {
	c.st.period = measured
	c.st.phaseSetpoint = c.st.mode.phaseAt(elapsed)
	c.st.lastFeedback = now

	c.hw.SetFeedbackSync(true)
	if err := c.program(); err != nil {
		c.stop(now, StopBadTiming)
		return
	}
	c.hw.ClearFrequencyDetector()
	c.hw.SetFeedbackInterrupt(true)
	c.st.state = StateRunning

	c.cnt.locks++
	RecordEvent(EvtLock, StateRunning, now, uint32(measured))
}

// HandleFeedbackCapture is the feedback capture ISR body. Each captured
// period reprograms both legs for the next cycle.
func (c *Controller) HandleFeedbackCapture() {
	state := enterCritical()
	defer exitCritical(state)

	measured, ok := c.hw.ReadFrequencyDetector()
	if !ok {
		return
	}
	c.cnt.captures++

	if c.st.state != StateRunning {
		return
	}
	if measured < c.cfg.MinPeriod {
		c.cnt.ignored++
		return
	}
	now := c.clock.Now()
	if c.hw.OvercurrentActive() {
		c.trip(now)
		return
	}

	c.st.period = measured
	c.st.lastFeedback = now
	if n := c.cfg.LegSwapCycles; n > 0 {
		c.st.cycleCount++
		if c.st.cycleCount >= n {
			c.st.cycleCount = 0
			c.st.swap = !c.st.swap
		}
	}
	if err := c.program(); err != nil {
		c.stop(now, StopBadTiming)
	}
}

// HandleOvercurrentEdge is the overcurrent edge ISR body. It only
// acknowledges and records the edge; Update and Start do the transition.
func (c *Controller) HandleOvercurrentEdge() {
	state := enterCritical()
	defer exitCritical(state)

	c.hw.AckOvercurrentEdge()
	c.cnt.overcurrentIRQ++
	RecordEvent(EvtOCEdge, c.st.state, c.clock.Now(), c.cnt.overcurrentIRQ)
}

// ClearOvercurrent returns to Idle once the fault input has released. While
// it is still asserted the controller stays in Overcurrent and ErrNotClear is
// returned. Outside Overcurrent it does nothing.
func (c *Controller) ClearOvercurrent() error {
	state := enterCritical()
	defer exitCritical(state)

	if c.st.state != StateOvercurrent {
		return nil
	}
	if c.hw.OvercurrentActive() {
		return ErrNotClear
	}
	c.st.state = StateIdle
	c.st.hasMode = false
	c.st.mode = RunMode{}
	RecordEvent(EvtClear, StateIdle, c.clock.Now(), 0)
	return nil
}

// IsRunning reports whether the bridge is being driven.
func (c *Controller) IsRunning() bool {
	state := enterCritical()
	defer exitCritical(state)
	return c.runningLocked()
}

// OvercurrentStatus reads the live level of the fault input.
func (c *Controller) OvercurrentStatus() bool {
	return c.hw.OvercurrentActive()
}

// State returns the current state.
func (c *Controller) State() OperationState {
	state := enterCritical()
	defer exitCritical(state)
	return c.st.state
}

// Mode returns the active run mode; ok is false while Idle.
func (c *Controller) Mode() (mode RunMode, ok bool) {
	state := enterCritical()
	defer exitCritical(state)
	return c.st.mode, c.st.hasMode
}

func (c *Controller) runningLocked() bool {
	switch c.st.state {
	case StateLocking, StateRunning, StateRunningOpenLoop:
		return true
	}
	return false
}

// trip latches Overcurrent. Outputs are frozen before anything else.
func (c *Controller) trip(now uint64) {
	from := c.st.state
	c.safeOutputs()
	c.st.state = StateOvercurrent
	c.cnt.trips++
	RecordEvent(EvtOvercurrent, from, now, uint32(c.st.mode.Kind))
}

func (c *Controller) stop(now uint64, reason uint32) {
	from := c.st.state
	c.stopLocked()
	RecordEvent(EvtStop, from, now, reason)
}

func (c *Controller) stopLocked() {
	c.safeOutputs()
	c.st.state = StateIdle
	c.st.hasMode = false
	c.st.mode = RunMode{}
}

func (c *Controller) safeOutputs() {
	c.hw.SetPhaseTimersActive(false)
	c.hw.SetFeedbackInterrupt(false)
	c.hw.SetFeedbackSync(false)
}

// program writes the feedback delay and both legs for the current period and
// phase setpoint as one committed update.
func (c *Controller) program() error {
	a, cl, err := LegTimings(c.st.period, c.st.phaseSetpoint, c.cfg.PhaseLimitLow, c.cfg.PhaseLimitHigh, c.st.swap)
	if err != nil {
		return err
	}
	delay := FeedbackDelay(c.st.period, c.cfg.DelayCompensation)
	c.withUpdate(func() {
		c.hw.SetFeedbackDelay(delay)
		c.hw.SetLegTimings(LegA, a)
		c.hw.SetLegTimings(LegC, cl)
	})
	return nil
}

func (c *Controller) withUpdate(fn func()) {
	c.hw.BeginUpdate()
	fn()
	c.hw.EndUpdate()
}
