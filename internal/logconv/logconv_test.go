package logconv_test

import (
	"time"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

type sliceScanner struct {
	records []api.Record
	pos     int
}

func (s *sliceScanner) Scan() bool {
	if s.pos >= len(s.records) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceScanner) Record() api.Record {
	return s.records[s.pos-1]
}

func testScanner() *sliceScanner {
	return &sliceScanner{records: []api.Record{
		{
			Time:    time.Date(2026, 7, 8, 9, 0, 0, 0, time.UTC),
			Level:   api.LevelInfo,
			Scope:   "business",
			Run:     "8d3c1a4e",
			Message: "business bot starting",
		},
		{
			Time:    time.Date(2026, 7, 8, 9, 0, 1, 0, time.UTC),
			Level:   api.LevelError,
			Scope:   "business:deploy",
			Run:     "8d3c1a4e",
			Message: "Deploy is stale:\tcommit abc1234",
			Extra:   map[string]interface{}{"staleMinutes": 95.0, "commit": "abc1234"},
		},
		{
			Time:    time.Date(2026, 7, 8, 9, 15, 0, 0, time.UTC),
			Level:   api.LevelCritical,
			Scope:   "scheduler:business",
			Message: "3 consecutive failures detected",
		},
	}}
}
