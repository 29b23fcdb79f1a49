package store

import (
	"strings"
	"time"
)

// Pattern is a path of the log file that can contain date placeholders.
//
// %Y, %y, %m, %d, %H, and %M are replaced with the time of the record, like strftime.
// %% is a literal %. Other placeholders are kept as is.
type Pattern string

var patternLayouts = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
}

// Build makes the path for a record at t.
func (p Pattern) Build(t time.Time) string {
	s := string(p)
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		i++
		if layout, ok := patternLayouts[s[i]]; ok {
			b.WriteString(t.Format(layout))
		} else if s[i] == '%' {
			b.WriteByte('%')
		} else {
			b.WriteByte('%')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
