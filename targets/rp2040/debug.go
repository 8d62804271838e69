//go:build rp2040

package main

import (
	"machine"
	"qcw/core"
	"qcw/protocol"
)

// InitDebug routes core debug output to the USB CDC serial port, where
// qcw-monitor picks it up. Every line is framed with a checksum.
func InitDebug(enabled bool) {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
	core.SetDebugWriter(func(s string) {
		line := protocol.AppendFrame(make([]byte, 0, len(s)+8), s)
		machine.Serial.Write(append(line, '\r', '\n'))
	})
	core.SetDebugEnabled(enabled)
	core.InitAsyncDebug()
}
