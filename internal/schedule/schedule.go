// Package schedule runs the pipelines periodically.
package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Default is the schedule of each pipeline in serve mode.
var Default = Schedule(Interval{15 * time.Minute})

// never is returned from Next of a schedule that does not fire again.
var never = time.UnixMicro(math.MaxInt64)

// Schedule is a cron.Schedule that also knows if the job should run at startup.
type Schedule interface {
	cron.Schedule
	fmt.Stringer

	// KickOnStart reports the job should run once soon after the scheduler started.
	KickOnStart() bool
}

// Parse parses a schedule spec.
//
// The spec is one of:
//   - a duration like "15m", runs every 15 minutes and once at startup.
//   - "@after <duration>", runs once after the duration since now.
//   - "@reboot", runs only once at startup.
//   - a cron expression like "*/30 9-18 * * *" or a descriptor like "@daily".
func Parse(spec string, now time.Time) (Schedule, error) {
	spec = strings.TrimSpace(spec)

	switch {
	case spec == "@reboot":
		return Reboot{}, nil
	case strings.HasPrefix(spec, "@after "):
		return parseAfter(spec, now)
	}

	if d, err := time.ParseDuration(spec); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("invalid schedule: interval must be positive: %q", spec)
		}
		return Interval{d}, nil
	}

	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %q: %w", spec, err)
	}
	return Cron{spec: spec, schedule: s}, nil
}

// Interval runs every fixed duration.
type Interval struct {
	Every time.Duration
}

func (s Interval) Next(t time.Time) time.Time {
	return t.Add(s.Every)
}

func (s Interval) String() string {
	return s.Every.String()
}

func (s Interval) KickOnStart() bool {
	return true
}

// Cron runs at the times described by a cron expression.
type Cron struct {
	spec     string
	schedule cron.Schedule
}

func (s Cron) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

func (s Cron) String() string {
	return s.spec
}

func (s Cron) KickOnStart() bool {
	return false
}

// After runs only once at a fixed time.
type After struct {
	Delay time.Duration
	At    time.Time
}

func parseAfter(spec string, now time.Time) (Schedule, error) {
	delay, err := time.ParseDuration(strings.TrimSpace(strings.TrimPrefix(spec, "@after ")))
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %q: %w", spec, err)
	}

	switch {
	case delay < 0:
		return nil, fmt.Errorf("invalid schedule: delay must not be negative: %q", spec)
	case delay == 0:
		return Reboot{}, nil
	}

	return After{Delay: delay, At: now.Add(delay)}, nil
}

func (s After) Next(t time.Time) time.Time {
	if t.Before(s.At) {
		return s.At
	}
	return never
}

func (s After) String() string {
	return "@after " + s.Delay.String()
}

func (s After) KickOnStart() bool {
	return false
}

// Reboot runs once at startup and never again.
type Reboot struct{}

func (s Reboot) Next(t time.Time) time.Time {
	return never
}

func (s Reboot) String() string {
	return "@reboot"
}

func (s Reboot) KickOnStart() bool {
	return true
}
