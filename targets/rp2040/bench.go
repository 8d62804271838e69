//go:build rp2040

package main

import (
	"encoding/json"
	"qcw/core"
)

// benchConfig is the demo sequence run by the firmware: one run of the
// given mode every PauseUS, with a telemetry line every TelemetryUS.
type benchConfig struct {
	Mode        string  `json:"mode"`
	Phase       float32 `json:"phase"`
	PhaseEnd    float32 `json:"phase_end"`
	DurationUS  uint64  `json:"duration_us"`
	PauseUS     uint64  `json:"pause_us"`
	TelemetryUS uint64  `json:"telemetry_us"`
	Debug       bool    `json:"debug"`
}

type firmwareConfig struct {
	Bench   benchConfig             `json:"bench"`
	Current core.CurrentCalibration `json:"current"`
}

func defaultBenchConfig() benchConfig {
	return benchConfig{
		Mode:        "burst",
		Phase:       0.5,
		PhaseEnd:    0.5,
		DurationUS:  400,
		PauseUS:     100000,
		TelemetryUS: 500000,
		Debug:       true,
	}
}

// loadFirmwareConfig parses the sections the core does not own.
func loadFirmwareConfig(data []byte) firmwareConfig {
	fw := firmwareConfig{Bench: defaultBenchConfig()}
	if err := json.Unmarshal(data, &fw); err != nil {
		core.DebugPrintln("[CONFIG] firmware section invalid, using defaults: " + err.Error())
		return firmwareConfig{Bench: defaultBenchConfig()}
	}
	if fw.Bench.PauseUS == 0 {
		fw.Bench.PauseUS = 100000
	}
	if fw.Bench.TelemetryUS == 0 {
		fw.Bench.TelemetryUS = 500000
	}
	return fw
}

func (b benchConfig) runMode() core.RunMode {
	switch b.Mode {
	case "ramp":
		return core.Ramp(b.Phase, b.PhaseEnd, b.DurationUS)
	case "test_closed_loop":
		return core.TestClosedLoop(b.Phase, b.DurationUS)
	case "test_open_loop":
		return core.TestOpenLoop(b.Phase, b.DurationUS)
	default:
		return core.Burst(b.Phase, b.DurationUS)
	}
}

// benchSequencer fires a run after each pause and clears overcurrent once
// the fault input releases.
type benchSequencer struct {
	cfg  benchConfig
	ctrl *core.Controller

	lastEnd    uint64
	wasRunning bool
	dumped     bool
}

func newBenchSequencer(cfg benchConfig, ctrl *core.Controller) *benchSequencer {
	return &benchSequencer{cfg: cfg, ctrl: ctrl}
}

func (s *benchSequencer) poll(now uint64) {
	switch s.ctrl.State() {
	case core.StateOvercurrent:
		if !s.dumped {
			core.DebugPrintln("[QCW] OVERCURRENT")
			core.DumpEventRing()
			s.dumped = true
		}
		if s.ctrl.ClearOvercurrent() == nil {
			core.DebugPrintln("[QCW] overcurrent cleared")
			s.dumped = false
			s.lastEnd = now
		}
		return

	case core.StateIdle:
		if s.wasRunning {
			s.wasRunning = false
			s.lastEnd = now
		}
		if now-s.lastEnd < s.cfg.PauseUS {
			return
		}
		if err := s.ctrl.Start(s.cfg.runMode()); err != nil {
			core.DebugAsync("[QCW] start refused: " + err.Error())
			s.lastEnd = now
			return
		}
		s.wasRunning = true

	default:
		s.wasRunning = true
	}
}
