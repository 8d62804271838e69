package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"qcw/host/mcu"
	"qcw/host/monitor"
	"qcw/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	raw     = flag.Bool("raw", false, "Print lines unchanged, without timestamps")
	timeout = flag.Int("timeout", 100, "Read timeout in milliseconds")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = *timeout

	conn := mcu.NewMCU()
	if err := conn.ConnectWithConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if !*raw {
		fmt.Printf("Monitoring %s (Ctrl-C to stop)\n", *device)
	}

	sig := make(chan os.Signal, 1)
	stopped := make(chan struct{})
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		close(stopped)
	}()

	// The port is only touched from this goroutine; Run notices the stop
	// within one read timeout.
	mon := monitor.New(os.Stdout, monitor.Options{Raw: *raw, Stop: stopped})

	err := mon.Run(conn, isTimeout)
	st := mon.Stats()
	if !*raw {
		fmt.Printf("\n%d lines, %d telemetry, %d locks, %d overcurrent\n",
			st.Lines, st.Telemetry, st.Locks, st.Overcurrent)
	}
	if err != nil && !errors.Is(err, monitor.ErrStopped) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTimeout reports read errors that only mean the port was idle. tarm/serial
// returns io.EOF on a read timeout with no data.
func isTimeout(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}
