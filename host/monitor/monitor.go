// Package monitor parses and annotates the text stream written by the
// controller firmware.
package monitor

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"qcw/protocol"
)

// Kind classifies a firmware line.
type Kind int

const (
	KindText Kind = iota
	KindTelemetry
	KindEvent
	KindOvercurrent
)

func (k Kind) String() string {
	switch k {
	case KindTelemetry:
		return "telemetry"
	case KindEvent:
		return "event"
	case KindOvercurrent:
		return "overcurrent"
	default:
		return "text"
	}
}

// Record is one parsed line. Fields holds the key=value pairs of telemetry
// and event lines in the order they appeared.
type Record struct {
	Kind   Kind
	Raw    string
	Event  string
	Keys   []string
	Fields map[string]string
}

const (
	telemetryPrefix = "QCW "
	eventPrefix     = "[EVENT] "
)

// Parse classifies a line and splits its fields.
func Parse(line string) Record {
	rec := Record{Kind: KindText, Raw: line}
	switch {
	case strings.HasPrefix(line, telemetryPrefix):
		rec.Kind = KindTelemetry
		rec.parseFields(strings.TrimPrefix(line, telemetryPrefix))
		if rec.Fields["state"] == "overcurrent" {
			rec.Kind = KindOvercurrent
		}
	case strings.HasPrefix(line, eventPrefix):
		rest := strings.TrimPrefix(line, eventPrefix)
		if strings.HasPrefix(rest, "===") {
			return rec
		}
		rec.Kind = KindEvent
		name, fields, _ := strings.Cut(rest, " ")
		rec.Event = name
		rec.parseFields(fields)
		if strings.HasPrefix(name, "OVERCURRENT") {
			rec.Kind = KindOvercurrent
		}
	case strings.Contains(line, "OVERCURRENT"):
		rec.Kind = KindOvercurrent
	}
	return rec
}

func (r *Record) parseFields(s string) {
	r.Fields = make(map[string]string)
	for _, tok := range strings.Fields(s) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		r.Keys = append(r.Keys, k)
		r.Fields[k] = v
	}
}

// Uint returns a numeric field.
func (r Record) Uint(key string) (uint64, bool) {
	v, ok := r.Fields[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float returns a fractional field such as phase.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r.Fields[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Stats accumulates what the monitor has seen.
type Stats struct {
	Lines       uint64
	Telemetry   uint64
	Events      uint64
	Overcurrent uint64
	Locks       uint64
	Corrupt     uint64
}

// LineReader is the source the monitor drains; *mcu.MCU satisfies it.
type LineReader interface {
	ReadLine() (string, error)
}

// Options controls Monitor output.
type Options struct {
	// Raw prints lines unchanged, without timestamps or markers.
	Raw bool

	// Now stamps lines; nil uses time.Now.
	Now func() time.Time

	// Stop ends Run once closed. It is checked between reads.
	Stop <-chan struct{}
}

// ErrStopped is returned by Run after Options.Stop is closed.
var ErrStopped = errors.New("monitor stopped")

// Monitor copies firmware lines to an output, stamping each with host time
// and flagging faults.
type Monitor struct {
	out   io.Writer
	opts  Options
	stats Stats
}

func New(out io.Writer, opts Options) *Monitor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Monitor{out: out, opts: opts}
}

// Handle processes one line. Framed lines are checked and printed without
// their checksum; a line that fails the check is shown but not parsed.
func (m *Monitor) Handle(line string) error {
	body, framed, valid := protocol.Unframe(line)
	m.stats.Lines++
	if framed && !valid {
		m.stats.Corrupt++
		return m.print(line, "??")
	}

	rec := Parse(body)
	switch rec.Kind {
	case KindTelemetry:
		m.stats.Telemetry++
	case KindEvent:
		m.stats.Events++
		if rec.Event == "LOCK" {
			m.stats.Locks++
		}
	case KindOvercurrent:
		m.stats.Overcurrent++
	}

	marker := "  "
	switch rec.Kind {
	case KindOvercurrent:
		marker = "!!"
	case KindEvent:
		marker = "* "
	}
	return m.print(body, marker)
}

func (m *Monitor) print(line, marker string) error {
	if m.opts.Raw {
		_, err := fmt.Fprintln(m.out, line)
		return err
	}
	ts := m.opts.Now().Format("15:04:05.000")
	_, err := fmt.Fprintf(m.out, "%s %s %s\n", ts, marker, line)
	return err
}

// Run reads lines until src returns an error for which retry reports
// false, or until Options.Stop is closed. Timeouts from an idle port should
// be retried.
func (m *Monitor) Run(src LineReader, retry func(error) bool) error {
	for {
		select {
		case <-m.opts.Stop:
			return ErrStopped
		default:
		}

		line, err := src.ReadLine()
		if err != nil {
			if retry != nil && retry(err) {
				continue
			}
			return err
		}
		if line == "" {
			continue
		}
		if err := m.Handle(line); err != nil {
			return err
		}
	}
}

func (m *Monitor) Stats() Stats {
	return m.stats
}
