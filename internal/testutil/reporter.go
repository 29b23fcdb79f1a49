package testutil

import (
	"sync"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Recorder is a store.Reporter that keeps records in memory.
type Recorder struct {
	sync.Mutex

	Records []api.Record
}

func (r *Recorder) Report(rec api.Record) {
	r.Lock()
	defer r.Unlock()

	r.Records = append(r.Records, rec)
}

// Messages returns messages of the records in level.
func (r *Recorder) Messages(level api.Level) []string {
	r.Lock()
	defer r.Unlock()

	var ms []string
	for _, rec := range r.Records {
		if rec.Level == level {
			ms = append(ms, rec.Message)
		}
	}
	return ms
}

// Scopes returns scopes of all records in order.
func (r *Recorder) Scopes() []string {
	r.Lock()
	defer r.Unlock()

	ss := make([]string, len(r.Records))
	for i, rec := range r.Records {
		ss[i] = rec.Scope
	}
	return ss
}
