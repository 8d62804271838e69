package serial

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.Baud != 115200 || cfg.ReadTimeout != 100 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestOpenRejectsEmptyConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("Open(nil) succeeded")
	}
	if _, err := Open(&Config{}); err == nil {
		t.Error("Open with no device succeeded")
	}
}
