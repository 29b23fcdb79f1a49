package ggbot

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError

	// LevelCritical is used when a problem repeats enough times that somebody has to look at it.
	LevelCritical
)

// Level is the severity of a Record.
type Level int8

// ParseLevel parses level string.
//
// Unsupported strings are parsed as LevelInfo.
func ParseLevel(raw string) Level {
	switch raw {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "CRITICAL":
		return LevelCritical
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "INFO"
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))
	return nil
}

// Record is a line in the run log.
type Record struct {
	Time time.Time

	Level Level

	// Scope is where the record came from, like "business:frontend" or "scheduler".
	Scope string

	// Run is the ID of the pipeline run that produced this record.
	// It is empty for records outside of any run.
	Run string

	Message string

	Extra map[string]interface{}
}

type jsonRecord struct {
	Time    string                 `json:"time"`
	Level   Level                  `json:"level"`
	Scope   string                 `json:"scope"`
	Run     string                 `json:"run,omitempty"`
	Message string                 `json:"message"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRecord{
		Time:    r.Time.Format(time.RFC3339),
		Level:   r.Level,
		Scope:   r.Scope,
		Run:     r.Run,
		Message: r.Message,
		Extra:   r.Extra,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var jr jsonRecord
	if err := json.Unmarshal(data, &jr); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}

	t, err := time.Parse(time.RFC3339, jr.Time)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}
	if jr.Scope == "" {
		return fmt.Errorf("%w: scope is required", ErrInvalidRecord)
	}

	*r = Record{
		Time:    t,
		Level:   jr.Level,
		Scope:   jr.Scope,
		Run:     jr.Run,
		Message: jr.Message,
		Extra:   jr.Extra,
	}
	return nil
}

// ParseRecord parses a line of the run log.
func ParseRecord(s string) (Record, error) {
	var r Record
	err := r.UnmarshalJSON([]byte(s))
	return r, err
}

// String makes a log line from the Record.
func (r Record) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		// Extra has a value that is not serializable.
		r.Extra = map[string]interface{}{"error": err.Error()}
		b, _ = r.MarshalJSON()
	}
	return string(b)
}
