package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event kinds recorded in the event ring.
const (
	EvtStart       = 1 // run started, Value = mode kind
	EvtLock        = 2 // lock acquired, Value = measured period
	EvtStop        = 3 // run ended, Value = stop reason
	EvtOvercurrent = 4 // overcurrent trip, Value = state at trip
	EvtClear       = 5 // overcurrent cleared
	EvtOCEdge      = 6 // overcurrent input edge seen by the ISR
	EvtStartReject = 7 // start refused, Value = state at refusal
)

// Stop reasons carried in EvtStop.
const (
	StopDuration     = 1
	StopFeedbackLost = 2
	StopBadTiming    = 3 // period could not be programmed
)

// ControlEvent captures a state-machine event for post-mortem analysis.
type ControlEvent struct {
	Kind  uint8
	State OperationState
	Clock uint64
	Value uint32
}

const EventRingSize = 32

var (
	debugPrintln DebugWriter = func(s string) {}
	debugEnabled bool

	eventRing     [EventRingSize]ControlEvent
	eventRingHead uint8

	debugChan chan string
)

// SetDebugWriter installs the platform output (UART, USB CDC, ...).
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables DebugPrintln output.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the goroutine that drains DebugAsync messages.
// Call it from main() after SetDebugWriter.
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a message synchronously when debug output is enabled.
// Never call it from an ISR.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a message without blocking; it is dropped if the queue
// is full or InitAsyncDebug was not called.
func DebugAsync(msg string) {
	if debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordEvent stores an event in the ring, overwriting the oldest. Safe from
// any context.
func RecordEvent(kind uint8, st OperationState, clock uint64, value uint32) {
	state := enterCritical()
	idx := eventRingHead
	eventRing[idx] = ControlEvent{Kind: kind, State: st, Clock: clock, Value: value}
	eventRingHead = (idx + 1) % EventRingSize
	exitCritical(state)
}

// Events returns the recorded events, oldest first.
func Events() []ControlEvent {
	state := enterCritical()
	ring := eventRing
	head := eventRingHead
	exitCritical(state)

	out := make([]ControlEvent, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := ring[(head+i)%EventRingSize]
		if evt.Kind == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpEventRing writes the ring to the debug writer, oldest first. Call it
// from the foreground loop after a fault.
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[EVENT] === event ring ===")
	for _, evt := range Events() {
		buf := make([]byte, 0, 64)
		buf = append(buf, "[EVENT] "...)
		buf = append(buf, eventName(evt.Kind)...)
		buf = append(buf, " state="...)
		buf = append(buf, evt.State.String()...)
		buf = append(buf, " clock="...)
		buf = appendUint(buf, evt.Clock)
		buf = append(buf, " v="...)
		buf = appendUint(buf, uint64(evt.Value))
		debugPrintln(string(buf))
	}
	debugPrintln("[EVENT] === end ===")
}

// ClearEventRing empties the ring.
func ClearEventRing() {
	state := enterCritical()
	for i := range eventRing {
		eventRing[i] = ControlEvent{}
	}
	eventRingHead = 0
	exitCritical(state)
}

func eventName(kind uint8) string {
	switch kind {
	case EvtStart:
		return "START"
	case EvtLock:
		return "LOCK"
	case EvtStop:
		return "STOP"
	case EvtOvercurrent:
		return "OVERCURRENT!"
	case EvtClear:
		return "CLEAR"
	case EvtOCEdge:
		return "OC_EDGE"
	case EvtStartReject:
		return "START_REJECT"
	default:
		return "UNKNOWN"
	}
}
