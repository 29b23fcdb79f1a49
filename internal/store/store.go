package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Store is the log handler of ggbot, and it also keeps the latest results of the bots for the endpoints.
type Store struct {
	path string

	Console io.Writer

	writeCh       chan<- api.Record
	writerStopped chan struct{}
	errorsLock    sync.RWMutex
	errors        []string
	healthy       bool

	latestLock sync.RWMutex
	business   *api.BotStatus
	output     *api.OutputStatus
}

// New creates a Store that prints records to console and appends them to the file at path.
// The path is a Pattern, so "ggbot_%Y%m%d.log" makes a file per day.
// Empty path disables the log file.
func New(path string, console io.Writer) (*Store, error) {
	ch := make(chan api.Record, 32)

	store := &Store{
		path:          path,
		Console:       console,
		writeCh:       ch,
		writerStopped: make(chan struct{}),
		healthy:       true,
	}

	if store.path != "" {
		if f, err := openLogFile(Pattern(store.path).Build(time.Now())); err != nil {
			close(ch)
			return nil, err
		} else {
			f.Close()
		}
	}

	go store.writer(ch, store.writerStopped)

	return store, nil
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
}

// Path returns the pattern of the log file path.
func (s *Store) Path() string {
	return s.path
}

// handleError reports an error of write a log.
// This error will reported to console in this method, and /healthz page via Store.Errors method.
func (s *Store) handleError(err error, exportableErrorMessage string) {
	if err != nil {
		s.addError(exportableErrorMessage)
		strings.NewReader(api.Record{
			Time:    time.Now(),
			Level:   api.LevelError,
			Scope:   "ggbot:log",
			Message: err.Error(),
		}.String() + "\n").WriteTo(s.Console)
	}
}

func (s *Store) writer(ch <-chan api.Record, stopped chan struct{}) {
	var reader strings.Reader

	for r := range ch {
		msg := r.String() + "\n"

		reader.Reset(msg)
		reader.WriteTo(s.Console)

		if s.path == "" {
			continue
		}

		s.setHealthy()

		f, err := openLogFile(Pattern(s.path).Build(r.Time))
		if err != nil {
			s.handleError(err, "failed to open log file")
			continue
		}

		reader.Seek(0, io.SeekStart)
		_, err = reader.WriteTo(f)
		s.handleError(err, "failed to write log file")

		err = f.Close()
		s.handleError(err, "failed to close log file")
	}

	close(stopped)
}

// Close flushes pending records and stops the writer.
func (s *Store) Close() error {
	close(s.writeCh)
	<-s.writerStopped
	return nil
}

// Report reports a Record to this Store.
func (s *Store) Report(r api.Record) {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	r.Message = strings.Trim(r.Message, "\r\n")

	s.writeCh <- r
}

// setHealthy is reset healthy status of this store.
// This status is reported by Errors method.
func (s *Store) setHealthy() {
	s.errorsLock.Lock()
	defer s.errorsLock.Unlock()

	s.healthy = true
}

// addError adds error message for Errors method, and set healthy status to false.
func (s *Store) addError(message string) {
	s.errorsLock.Lock()
	defer s.errorsLock.Unlock()

	s.healthy = false
	s.errors = append(
		s.errors,
		fmt.Sprintf("%s\t%s", time.Now().Format(time.RFC3339), message),
	)

	if len(s.errors) > 10 {
		s.errors = s.errors[1:]
	}
}

// Errors returns store status and error logs.
func (s *Store) Errors() (healthy bool, messages []string) {
	s.errorsLock.RLock()
	defer s.errorsLock.RUnlock()

	return s.healthy, s.errors
}

// SetBusinessStatus keeps the result of the latest Business Bot run.
func (s *Store) SetBusinessStatus(st api.BotStatus) {
	s.latestLock.Lock()
	defer s.latestLock.Unlock()

	s.business = &st
}

// BusinessStatus returns the result of the latest Business Bot run.
// The second value is false if there is no run yet.
func (s *Store) BusinessStatus() (api.BotStatus, bool) {
	s.latestLock.RLock()
	defer s.latestLock.RUnlock()

	if s.business == nil {
		return api.BotStatus{}, false
	}
	return *s.business, true
}

// SetOutputStatus keeps the result of the latest Output Engine run.
func (s *Store) SetOutputStatus(st api.OutputStatus) {
	s.latestLock.Lock()
	defer s.latestLock.Unlock()

	s.output = &st
}

// OutputStatus returns the result of the latest Output Engine run.
func (s *Store) OutputStatus() (api.OutputStatus, bool) {
	s.latestLock.RLock()
	defer s.latestLock.RUnlock()

	if s.output == nil {
		return api.OutputStatus{}, false
	}
	return *s.output, true
}
