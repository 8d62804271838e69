package mcu

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"qcw/host/serial"
)

// MCU is a read-only connection to the controller firmware's debug stream.
// The firmware accepts no commands; everything it reports arrives as text
// lines.
type MCU struct {
	port   serial.Port
	reader *bufio.Reader

	partial   string
	connected bool
	lines     uint64
}

var errNotConnected = errors.New("not connected to MCU")

// NewMCU creates a new MCU instance (not yet connected)
func NewMCU() *MCU {
	return &MCU{}
}

// Connect opens the device with the default serial configuration.
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a serial port with a custom configuration.
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	m.Attach(port)

	// Give the firmware time to finish booting if the port open reset it.
	time.Sleep(100 * time.Millisecond)
	port.Flush()
	return nil
}

// Attach uses an already open port.
func (m *MCU) Attach(port serial.Port) {
	m.port = port
	m.reader = bufio.NewReader(port)
	m.connected = true
}

// Close closes the connection to the MCU
func (m *MCU) Close() error {
	m.connected = false
	if m.port == nil {
		return nil
	}
	return m.port.Close()
}

// ReadLine returns the next line without its terminator. A read timeout on
// the port surfaces as its error; any partial line is kept for the next
// call.
func (m *MCU) ReadLine() (string, error) {
	if !m.connected {
		return "", errNotConnected
	}
	line, err := m.reader.ReadString('\n')
	if err != nil {
		m.partial += line
		return "", err
	}
	line = m.partial + line
	m.partial = ""
	m.lines++
	return strings.TrimRight(line, "\r\n"), nil
}

// Lines returns how many complete lines have been read.
func (m *MCU) Lines() uint64 {
	return m.lines
}
