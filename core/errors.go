package core

import "errors"

var (
	// ErrBusy is returned by Start when the controller is not Idle. From
	// Overcurrent the caller must ClearOvercurrent first.
	ErrBusy = errors.New("controller busy")

	// ErrNotClear is returned by ClearOvercurrent while the fault input is
	// still asserted. Callers poll and retry.
	ErrNotClear = errors.New("overcurrent still active")

	ErrNotInitialized = errors.New("controller not initialized")
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrInvalidMode    = errors.New("invalid run mode")
)
