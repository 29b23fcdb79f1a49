// Package logconv converts the run log into other formats.
package logconv

import (
	"sort"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Scanner reads records. *api.LogScanner is a Scanner.
type Scanner interface {
	Scan() bool
	Record() api.Record
}

func extraKeys(extra map[string]interface{}) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
