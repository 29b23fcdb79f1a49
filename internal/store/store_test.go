package store_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/djjrip/ggloop-bots/internal/store"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/google/go-cmp/cmp"
)

type Buffer struct {
	sync.Mutex

	buf *bytes.Buffer
}

func NewBuffer() *Buffer {
	return &Buffer{
		buf: &bytes.Buffer{},
	}
}

func (b *Buffer) Write(p []byte) (n int, err error) {
	b.Lock()
	defer b.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.Lock()
	defer b.Unlock()
	return b.buf.String()
}

func TestStore_Report(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggbot.log")

	buf := NewBuffer()
	s, err := store.New(path, buf)
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}

	s.Report(api.Record{
		Time:    time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Level:   api.LevelWarn,
		Scope:   "business",
		Run:     "abc",
		Message: "frontend is down\n",
	})
	s.Report(api.Record{
		Time:    time.Date(2026, 1, 2, 15, 4, 6, 0, time.UTC),
		Level:   api.LevelInfo,
		Scope:   "output",
		Message: "done",
	})

	if err := s.Close(); err != nil {
		t.Fatalf("failed to close store: %s", err)
	}

	want := strings.Join([]string{
		`{"time":"2026-01-02T15:04:05Z","level":"WARN","scope":"business","run":"abc","message":"frontend is down"}`,
		`{"time":"2026-01-02T15:04:06Z","level":"INFO","scope":"output","message":"done"}`,
		``,
	}, "\n")

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("unexpected console output\n%s", diff)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %s", err)
	}
	if diff := cmp.Diff(want, string(file)); diff != "" {
		t.Errorf("unexpected log file\n%s", diff)
	}

	if healthy, errs := s.Errors(); !healthy || len(errs) != 0 {
		t.Errorf("store should be healthy: %v", errs)
	}
}

func TestStore_Report_pattern(t *testing.T) {
	dir := t.TempDir()

	s, err := store.New(filepath.Join(dir, "%Y", "ggbot_%m%d.log"), NewBuffer())
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}

	s.Report(api.Record{Time: time.Date(2026, 7, 8, 23, 59, 0, 0, time.UTC), Scope: "business", Message: "first"})
	s.Report(api.Record{Time: time.Date(2026, 7, 9, 0, 1, 0, 0, time.UTC), Scope: "business", Message: "second"})
	s.Close()

	for name, message := range map[string]string{
		"ggbot_0708.log": "first",
		"ggbot_0709.log": "second",
	} {
		content, err := os.ReadFile(filepath.Join(dir, "2026", name))
		if err != nil {
			t.Errorf("failed to read %s: %s", name, err)
			continue
		}
		r, err := api.ParseRecord(strings.TrimSpace(string(content)))
		if err != nil {
			t.Errorf("failed to parse %s: %s", name, err)
		} else if r.Message != message {
			t.Errorf("%s: unexpected message: %q", name, r.Message)
		}
	}
}

func TestStore_noFile(t *testing.T) {
	buf := NewBuffer()
	s, err := store.New("", buf)
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}

	if s.Path() != "" {
		t.Errorf("unexpected path: %q", s.Path())
	}

	s.Report(api.Record{Scope: "test", Message: "hello"})
	s.Close()

	r, err := api.ParseRecord(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatalf("failed to parse console output: %s", err)
	}
	if r.Time.IsZero() {
		t.Errorf("time should be filled")
	}
	if r.Message != "hello" {
		t.Errorf("unexpected message: %q", r.Message)
	}
}

func TestStore_errorLogging(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("can't do this test because file permission does not work on windows")
	}

	path := filepath.Join(t.TempDir(), "ggbot.log")

	buf := NewBuffer()
	s, err := store.New(path, buf)
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}
	defer s.Close()

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove log file: %s", err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("failed to make directory: %s", err)
	}

	s.Report(api.Record{Scope: "test", Message: "hello"})

	for i := 0; i < 100; i++ {
		if healthy, _ := s.Errors(); !healthy {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	healthy, errs := s.Errors()
	if healthy {
		t.Fatalf("store should be unhealthy")
	}
	if len(errs) != 1 || !strings.HasSuffix(errs[0], "\tfailed to open log file") {
		t.Errorf("unexpected errors: %#v", errs)
	}
}

func TestStore_latest(t *testing.T) {
	s, err := store.New("", NewBuffer())
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}
	defer s.Close()

	if _, ok := s.BusinessStatus(); ok {
		t.Errorf("business status should be empty at first")
	}
	if _, ok := s.OutputStatus(); ok {
		t.Errorf("output status should be empty at first")
	}

	s.SetBusinessStatus(api.BotStatus{State: api.StateDegraded})
	s.SetOutputStatus(api.OutputStatus{State: api.OutputStalled})

	if b, ok := s.BusinessStatus(); !ok || b.State != api.StateDegraded {
		t.Errorf("unexpected business status: %v %v", b.State, ok)
	}
	if o, ok := s.OutputStatus(); !ok || o.State != api.OutputStalled {
		t.Errorf("unexpected output status: %v %v", o.State, ok)
	}
}

func TestLogger(t *testing.T) {
	var r recorder

	l := store.NewLogger(&r, "business", "run-1")
	l.Info("start", nil)
	l.WithScope("business:frontend").WarnError("fetch failed", errors.New("timeout"))
	l.Critical("escalate", map[string]interface{}{"failures": 3})

	got := make([]string, len(r.records))
	for i, rec := range r.records {
		got[i] = rec.Level.String() + " " + rec.Scope + " " + rec.Run + " " + rec.Message
	}

	want := []string{
		"INFO business run-1 start",
		"WARN business:frontend run-1 fetch failed",
		"CRITICAL business run-1 escalate",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected records\n%s", diff)
	}

	if e := r.records[1].Extra["error"]; e != "timeout" {
		t.Errorf("unexpected extra: %#v", r.records[1].Extra)
	}

	// zero Logger discards everything.
	store.Logger{}.Error("nothing happens", nil)
}

type recorder struct {
	records []api.Record
}

func (r *recorder) Report(rec api.Record) {
	r.records = append(r.records, rec)
}
