package core

import (
	"errors"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"delay_compensation": 12}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	want := DefaultConfig()
	want.DelayCompensation = 12
	if *cfg != want {
		t.Errorf("config = %+v, want %+v", *cfg, want)
	}
}

func TestLoadConfigFull(t *testing.T) {
	data := []byte(`{
		"delay_compensation": 10,
		"startup_period": 500,
		"allowed_period_deviation": 50,
		"phase_limit_low": 0.1,
		"phase_limit_high": 0.9,
		"leg_swap_cycles": 8,
		"feedback_timeout": 2000,
		"min_period": 100
	}`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.StartupPeriod != 500 || cfg.AllowedPeriodDeviation != 50 || cfg.MinPeriod != 100 {
		t.Errorf("periods not parsed: %+v", cfg)
	}
	if cfg.PhaseLimitLow != 0.1 || cfg.PhaseLimitHigh != 0.9 {
		t.Errorf("phase limits = %v..%v", cfg.PhaseLimitLow, cfg.PhaseLimitHigh)
	}
	if cfg.LegSwapCycles != 8 || cfg.FeedbackTimeout != 2000 {
		t.Errorf("swap/timeout not parsed: %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"odd swap", `{"leg_swap_cycles": 3}`},
		{"inverted limits", `{"phase_limit_low": 0.8, "phase_limit_high": 0.2}`},
		{"limit above one", `{"phase_limit_high": 1.5}`},
		{"startup below min", `{"startup_period": 50, "min_period": 100}`},
		{"tiny startup", `{"startup_period": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	if _, err := LoadConfig([]byte(`{`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestInitKeepsExplicitZeros(t *testing.T) {
	cfg := scenarioConfig()
	cfg.AllowedPeriodDeviation = 0
	cfg.PhaseLimitHigh = 0
	c, _, _ := newTestController(t, cfg)
	if got := c.Config(); got != cfg {
		t.Errorf("config = %+v, want %+v", got, cfg)
	}
}

func TestInitRejectsUnsetMinPeriod(t *testing.T) {
	c := NewController(newMockBridge(t), &fakeClock{})
	err := c.Init(Config{DelayCompensation: 10, StartupPeriod: 500})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
