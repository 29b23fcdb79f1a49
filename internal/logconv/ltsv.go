package logconv

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var ltsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

func ToLTSV(w io.Writer, s Scanner) error {
	for s.Scan() {
		r := s.Record()

		_, err := fmt.Fprintf(w, "time:%s\tlevel:%s\tscope:%s", r.Time.Format(time.RFC3339), r.Level, r.Scope)
		if err != nil {
			return err
		}

		if r.Run != "" {
			if _, err := fmt.Fprintf(w, "\trun:%s", r.Run); err != nil {
				return err
			}
		}

		if r.Message != "" {
			if _, err := fmt.Fprintf(w, "\tmessage:%s", ltsvEscaper.Replace(r.Message)); err != nil {
				return err
			}
		}

		for _, k := range extraKeys(r.Extra) {
			var v string
			if s, ok := r.Extra[k].(string); ok {
				v = ltsvEscaper.Replace(s)
			} else if b, err := json.Marshal(r.Extra[k]); err == nil {
				v = string(b)
			}

			if _, err := fmt.Fprintf(w, "\t%s:%s", k, v); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}
