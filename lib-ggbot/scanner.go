package ggbot

import (
	"bufio"
	"io"
)

// LogScanner reads the run log line by line.
//
// Lines that are not valid records are skipped.
type LogScanner struct {
	file    io.ReadCloser
	scanner *bufio.Scanner
	rec     Record
}

// NewLogScanner creates a new LogScanner from io.ReadCloser.
func NewLogScanner(f io.ReadCloser) *LogScanner {
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &LogScanner{
		file:    f,
		scanner: s,
	}
}

func (s *LogScanner) Close() error {
	return s.file.Close()
}

// Scan reads the next record. It returns false if there is no more record.
func (s *LogScanner) Scan() bool {
	for s.scanner.Scan() {
		rec, err := ParseRecord(s.scanner.Text())
		if err != nil {
			continue
		}
		s.rec = rec
		return true
	}
	return false
}

// Record returns the current record.
func (s *LogScanner) Record() Record {
	return s.rec
}
