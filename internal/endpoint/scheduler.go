package endpoint

import (
	"net/http"

	"github.com/djjrip/ggloop-bots/internal/schedule"
)

// SchedulerEndpoint is the http.HandlerFunc for /scheduler.json.
func SchedulerEndpoint(runners []Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ss := make([]schedule.Status, len(runners))
		for i, r := range runners {
			ss[i] = r.Status()
		}
		writeJSON(w, http.StatusOK, ss)
	}
}
