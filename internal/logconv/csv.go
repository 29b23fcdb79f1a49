package logconv

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/goccy/go-json"
)

func ToCSV(w io.Writer, s Scanner) error {
	c := csv.NewWriter(w)

	err := c.Write([]string{"time", "level", "scope", "run", "message", "extra"})
	if err != nil {
		return err
	}

	for s.Scan() {
		r := s.Record()

		var extra []byte
		if len(r.Extra) > 0 {
			// Ignore error because it use empty string if failed to convert.
			extra, _ = json.Marshal(r.Extra)
		}

		err := c.Write([]string{
			r.Time.Format(time.RFC3339),
			r.Level.String(),
			r.Scope,
			r.Run,
			r.Message,
			string(extra),
		})
		if err != nil {
			return err
		}
	}

	c.Flush()

	return c.Error()
}
