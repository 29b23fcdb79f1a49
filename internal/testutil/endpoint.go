package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/djjrip/ggloop-bots/internal/endpoint"
	"github.com/djjrip/ggloop-bots/internal/schedule"
)

// StaticRunner is an endpoint.Runner that always reports the same status.
type StaticRunner schedule.Status

func (r StaticRunner) Status() schedule.Status {
	return schedule.Status(r)
}

// StartTestServer starts the endpoints with a store that has results of both bots.
func StartTestServer(t testing.TB) *httptest.Server {
	t.Helper()

	s := NewStoreWithStatus(t)

	srv := httptest.NewServer(endpoint.New(s, []endpoint.Runner{
		StaticRunner{Name: "business", Schedule: "15m0s", ConsecutiveFailures: 1, LastState: "BROKEN"},
		StaticRunner{Name: "output", Schedule: "15m0s", LastState: "STALLED"},
	}))
	t.Cleanup(srv.Close)

	return srv
}
