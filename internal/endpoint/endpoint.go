// Package endpoint serves the latest results of the bots over HTTP.
package endpoint

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/goccy/go-json"
)

// New makes the http.Handler of the serve command.
func New(s Store, runners []Runner) http.Handler {
	m := http.NewServeMux()

	m.HandleFunc("/status.json", BusinessStatusEndpoint(s))
	m.HandleFunc("/output.json", OutputStatusEndpoint(s))
	m.HandleFunc("/scheduler.json", SchedulerEndpoint(runners))
	m.Handle("/metrics", MetricsEndpoint(s, runners))
	m.HandleFunc("/healthz", HealthzEndpoint(s))

	m.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/status.json", http.StatusFound)
		} else {
			http.NotFound(w, r)
		}
	})

	return gziphandler.GzipHandler(m)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
