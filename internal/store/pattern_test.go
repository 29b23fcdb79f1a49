package store_test

import (
	"testing"
	"time"

	"github.com/djjrip/ggloop-bots/internal/store"
)

func TestPattern_Build(t *testing.T) {
	times := []time.Time{
		time.Date(2026, 2, 3, 4, 5, 6, 7, time.UTC),
		time.Date(1999, 11, 29, 20, 42, 50, 234, time.UTC),
	}
	tests := []struct {
		input string
		want  []string
	}{
		{"ggbot.log", []string{"ggbot.log", "ggbot.log"}},
		{"ggbot_%Y%m%d%H%M.log", []string{"ggbot_202602030405.log", "ggbot_199911292042.log"}},
		{"year=%y/month=%m/day=%d/ggbot.log", []string{"year=26/month=02/day=03/ggbot.log", "year=99/month=11/day=29/ggbot.log"}},
		{"ggbot_%ignore%%%Y.log", []string{"ggbot_%ignore%2026.log", "ggbot_%ignore%1999.log"}},
		{"ggbot_%", []string{"ggbot_%", "ggbot_%"}},
	}

	for _, tt := range tests {
		p := store.Pattern(tt.input)

		for i, want := range tt.want {
			actual := p.Build(times[i])
			if actual != want {
				t.Errorf("%s: unexpected result:\nexpected: %s\n but got: %s", tt.input, want, actual)
			}
		}
	}
}
