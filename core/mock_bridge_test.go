package core

import "testing"

// mockBridge records the writes the controller makes and checks that every
// timing write happens inside a BeginUpdate/EndUpdate bracket.
type mockBridge struct {
	t *testing.T

	inUpdate    bool
	commits     int
	unbracketed int

	staged    [2]ChannelTimings
	committed [2]ChannelTimings
	delay     uint16

	active       bool
	sync         bool
	irq          bool
	activeWrites []bool

	capture    uint16
	hasCapture bool
	clears     int

	overcurrent bool
	acks        int
}

func newMockBridge(t *testing.T) *mockBridge {
	return &mockBridge{t: t}
}

func (m *mockBridge) BeginUpdate() {
	if m.inUpdate {
		m.t.Error("BeginUpdate called twice without EndUpdate")
	}
	m.inUpdate = true
}

func (m *mockBridge) EndUpdate() {
	if !m.inUpdate {
		m.t.Error("EndUpdate without BeginUpdate")
	}
	m.inUpdate = false
	m.committed = m.staged
	m.commits++
}

func (m *mockBridge) SetLegTimings(leg Leg, t ChannelTimings) {
	if !m.inUpdate {
		m.unbracketed++
	}
	m.staged[leg] = t
}

func (m *mockBridge) SetFeedbackDelay(ticks uint16) {
	if !m.inUpdate {
		m.unbracketed++
	}
	m.delay = ticks
}

func (m *mockBridge) SetPhaseTimersActive(active bool) {
	m.active = active
	m.activeWrites = append(m.activeWrites, active)
}

func (m *mockBridge) SetFeedbackSync(enabled bool)      { m.sync = enabled }
func (m *mockBridge) SetFeedbackInterrupt(enabled bool) { m.irq = enabled }

func (m *mockBridge) ReadFrequencyDetector() (uint16, bool) {
	if !m.hasCapture {
		return 0, false
	}
	m.hasCapture = false
	return m.capture, true
}

func (m *mockBridge) ClearFrequencyDetector() {
	m.hasCapture = false
	m.clears++
}

func (m *mockBridge) OvercurrentActive() bool { return m.overcurrent }
func (m *mockBridge) AckOvercurrentEdge()     { m.acks++ }

// feed latches a capture; an unread one is overwritten.
func (m *mockBridge) feed(period uint16) {
	m.capture = period
	m.hasCapture = true
}

type fakeClock struct {
	now uint64
}

func (c *fakeClock) Now() uint64 { return c.now }

func (c *fakeClock) advance(d uint64) { c.now += d }

// scenarioConfig is the configuration used by the bench scenarios.
func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.DelayCompensation = 10
	cfg.StartupPeriod = 500
	cfg.AllowedPeriodDeviation = 100
	return cfg
}

func newTestController(t *testing.T, cfg Config) (*Controller, *mockBridge, *fakeClock) {
	t.Helper()
	hw := newMockBridge(t)
	clk := &fakeClock{now: 1000}
	c := NewController(hw, clk)
	if err := c.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	ClearEventRing()
	return c, hw, clk
}
