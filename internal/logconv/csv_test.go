package logconv_test

import (
	"bytes"
	"testing"

	"github.com/djjrip/ggloop-bots/internal/logconv"
)

func TestToCSV(t *testing.T) {
	var w bytes.Buffer

	if err := logconv.ToCSV(&w, testScanner()); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	want := "time,level,scope,run,message,extra\n" +
		"2026-07-08T09:00:00Z,INFO,business,8d3c1a4e,business bot starting,\n" +
		"2026-07-08T09:00:01Z,ERROR,business:deploy,8d3c1a4e,Deploy is stale:\tcommit abc1234,\"{\"\"commit\"\":\"\"abc1234\"\",\"\"staleMinutes\"\":95}\"\n" +
		"2026-07-08T09:15:00Z,CRITICAL,scheduler:business,,3 consecutive failures detected,\n"

	if w.String() != want {
		t.Errorf("unexpected output:\n%s", w.String())
	}
}
