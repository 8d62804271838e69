//go:build rp2040

package main

import (
	"device/rp"
	_ "embed"
	"machine"
	"qcw/core"
	"runtime/interrupt"
	"time"
)

//go:embed config.json
var configJSON []byte

var (
	controller *core.Controller
	bridge     *RP2040Bridge

	loopPanics uint32
)

func main() {
	// Clear any watchdog state left over from before the reset.
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	fw := loadFirmwareConfig(configJSON)
	InitDebug(fw.Bench.Debug)
	InitClock()

	led := newStatusLED(machine.LED)

	cfg, err := core.LoadConfig(configJSON)
	if err != nil {
		core.DebugPrintln("[CONFIG] " + err.Error() + ", using defaults")
		def := core.DefaultConfig()
		cfg = &def
	}

	bridge, err = NewRP2040Bridge()
	if err != nil {
		core.DebugPrintln("[BOOT] bridge init failed: " + err.Error())
		for {
			led.blink(GetHardwareUptime(), 50000)
		}
	}
	core.SetBridgeDriver(bridge)

	controller = core.NewController(core.MustBridge(), core.SystemClock)
	if err := controller.Init(*cfg); err != nil {
		core.DebugPrintln("[BOOT] controller init failed: " + err.Error())
		return
	}

	// Interrupts go live only once the controller exists.
	// The capture flag stays masked in INTE0 until the controller unmasks it.
	irq := interrupt.New(rp.IRQ_PIO0_IRQ_0, func(interrupt.Interrupt) {
		feedbackIRQ()
	})
	irq.Enable()
	if err := bridge.oc.listen(controller.HandleOvercurrentEdge); err != nil {
		core.DebugPrintln("[BOOT] overcurrent irq: " + err.Error())
	}

	var current *core.CurrentMonitor
	if adc, err := NewRPAdcDriver(currentSensePin); err == nil {
		core.SetADCDriver(adc)
		current = core.NewCurrentMonitor(core.MustADC(), fw.Current)
	}
	busMon := newBusMonitor()

	seq := newBenchSequencer(fw.Bench, controller)
	core.DebugPrintln("[BOOT] qcw ready, startup period " +
		itoa(int(cfg.StartupPeriod)) + " ticks (" +
		itoa(int(core.TicksToNS(uint32(cfg.StartupPeriod), bridgeClockHz))) + " ns)")

	var lastTelemetry uint64
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
				}
			}()

			UpdateSystemTime()
			now := core.GetTime()

			controller.Update()
			seq.poll(now)

			switch controller.State() {
			case core.StateRunning:
				led.set(true)
			case core.StateOvercurrent:
				led.blink(now, 50000)
			default:
				led.blink(now, 500000)
			}

			if current != nil && controller.IsRunning() {
				current.Sample()
			}

			if core.IsDebugEnabled() && now-lastTelemetry >= fw.Bench.TelemetryUS {
				lastTelemetry = now
				core.DebugAsync(telemetryLine(current, busMon))
			}
		}()

		// Let the debug worker drain.
		time.Sleep(10 * time.Microsecond)
	}
}

// feedbackIRQ runs on every captured feedback period while the capture
// interrupt is unmasked.
func feedbackIRQ() {
	if bridge.onFeedbackEdge() {
		controller.HandleFeedbackCapture()
	}
}

func telemetryLine(current *core.CurrentMonitor, busMon *busMonitor) string {
	line := controller.Snapshot().String()
	if current != nil {
		line += " ipk_ma=" + itoa(core.MilliAmps(current.Peak()))
		current.ResetPeak()
	}
	if mv, ma, ok := busMon.read(); ok {
		line += " vbus_mv=" + itoa(int(mv)) + " ibus_ma=" + itoa(int(ma))
	}
	line += " temp_mc=" + itoa(int(dieTemperature()))
	line += " drop=" + itoa(int(bridge.Dropped()))
	line += " resync=" + itoa(int(bridge.Resyncs()))
	line += " panics=" + itoa(int(loopPanics))
	return line
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
