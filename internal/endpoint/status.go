package endpoint

import (
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// BusinessStatusEndpoint is the http.HandlerFunc for /status.json.
// It responds 503 until the Business Bot finishes its first run.
func BusinessStatusEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := s.BusinessStatus()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{"business bot has not run yet"})
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// OutputStatusEndpoint is the http.HandlerFunc for /output.json.
// It responds 503 until the Output Engine finishes its first run.
func OutputStatusEndpoint(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := s.OutputStatus()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{"output engine has not run yet"})
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
