package monitor

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"qcw/protocol"
)

func TestParseTelemetry(t *testing.T) {
	rec := Parse("QCW state=running mode=burst per=498 phase=0.250 swap=0 t=1200 starts=1 locks=1 trips=0 cap=37 ign=0 oc=0")
	if rec.Kind != KindTelemetry {
		t.Fatalf("Kind = %v", rec.Kind)
	}
	if rec.Fields["state"] != "running" || rec.Fields["mode"] != "burst" {
		t.Errorf("fields = %v", rec.Fields)
	}
	if per, ok := rec.Uint("per"); !ok || per != 498 {
		t.Errorf("per = %d, %v", per, ok)
	}
	if ph, ok := rec.Float("phase"); !ok || ph != 0.25 {
		t.Errorf("phase = %v, %v", ph, ok)
	}
	if len(rec.Keys) != 12 || rec.Keys[0] != "state" {
		t.Errorf("keys = %v", rec.Keys)
	}
}

func TestParseOvercurrent(t *testing.T) {
	tests := []struct {
		line  string
		kind  Kind
		event string
	}{
		{"QCW state=overcurrent mode=burst per=500", KindOvercurrent, ""},
		{"[EVENT] OVERCURRENT! state=running clock=77 v=3", KindOvercurrent, "OVERCURRENT!"},
		{"[QCW] OVERCURRENT", KindOvercurrent, ""},
		{"[EVENT] LOCK state=running clock=1200 v=498", KindEvent, "LOCK"},
		{"[EVENT] === event ring ===", KindText, ""},
		{"[BOOT] qcw ready", KindText, ""},
	}
	for _, tt := range tests {
		rec := Parse(tt.line)
		if rec.Kind != tt.kind || rec.Event != tt.event {
			t.Errorf("Parse(%q) = kind %v event %q, want %v %q", tt.line, rec.Kind, rec.Event, tt.kind, tt.event)
		}
	}
}

func TestRecordMissingField(t *testing.T) {
	rec := Parse("QCW state=idle per=x")
	if _, ok := rec.Uint("per"); ok {
		t.Error("non-numeric per parsed")
	}
	if _, ok := rec.Uint("cap"); ok {
		t.Error("missing cap parsed")
	}
}

type sliceReader struct {
	lines []string
}

func (s *sliceReader) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC)
}

func TestMonitorRun(t *testing.T) {
	src := &sliceReader{lines: []string{
		"[BOOT] qcw ready",
		"",
		protocol.Frame("[EVENT] LOCK state=running clock=1200 v=498"),
		"QCW state=running mode=burst per=498",
		"[EVENT] OVERCURRENT! state=running clock=1300 v=3",
	}}
	var out bytes.Buffer
	m := New(&out, Options{Now: fixedNow})

	if err := m.Run(src, nil); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want EOF", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("output:\n%s", out.String())
	}
	if lines[0] != "03:04:05.006    [BOOT] qcw ready" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "03:04:05.006 *  [EVENT] LOCK state=running clock=1200 v=498" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "03:04:05.006 !! ") {
		t.Errorf("line 3 = %q", lines[3])
	}

	st := m.Stats()
	want := Stats{Lines: 4, Telemetry: 1, Events: 1, Overcurrent: 1, Locks: 1}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
}

func TestMonitorRawAndRetry(t *testing.T) {
	timeout := errors.New("timeout")
	calls := 0
	src := readerFunc(func() (string, error) {
		calls++
		switch calls {
		case 1:
			return "", timeout
		case 2:
			return "QCW state=idle", nil
		default:
			return "", io.EOF
		}
	})

	var out bytes.Buffer
	m := New(&out, Options{Raw: true})
	err := m.Run(src, func(err error) bool { return errors.Is(err, timeout) })
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v", err)
	}
	if out.String() != "QCW state=idle\n" {
		t.Errorf("out = %q", out.String())
	}
}

func TestMonitorStop(t *testing.T) {
	stop := make(chan struct{})
	reads := 0
	src := readerFunc(func() (string, error) {
		reads++
		if reads == 3 {
			close(stop)
		}
		return "QCW state=running", nil
	})

	var out bytes.Buffer
	m := New(&out, Options{Raw: true, Stop: stop})
	if err := m.Run(src, nil); !errors.Is(err, ErrStopped) {
		t.Fatalf("Run = %v, want ErrStopped", err)
	}
	if reads != 3 {
		t.Errorf("reads = %d, want 3", reads)
	}
	if st := m.Stats(); st.Lines != 3 {
		t.Errorf("lines = %d, want 3", st.Lines)
	}
}

func TestMonitorCorruptLine(t *testing.T) {
	framed := []byte(protocol.Frame("QCW state=overcurrent mode=burst"))
	framed[6] = 'x'

	var out bytes.Buffer
	m := New(&out, Options{Now: fixedNow})
	if err := m.Handle(string(framed)); err != nil {
		t.Fatal(err)
	}
	st := m.Stats()
	if st.Corrupt != 1 || st.Overcurrent != 0 {
		t.Errorf("stats = %+v", st)
	}
	if !strings.HasPrefix(out.String(), "03:04:05.006 ?? ") {
		t.Errorf("out = %q", out.String())
	}
}

type readerFunc func() (string, error)

func (f readerFunc) ReadLine() (string, error) { return f() }
