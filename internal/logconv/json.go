package logconv

import (
	"io"

	"github.com/goccy/go-json"
)

// ToJSON writes records as a JSON array.
func ToJSON(w io.Writer, s Scanner) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}

	first := true
	for s.Scan() {
		b, err := json.Marshal(s.Record())
		if err != nil {
			return err
		}

		sep := ",\n"
		if first {
			sep = "\n"
			first = false
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	if !first {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}
