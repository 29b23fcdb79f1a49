package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/robfig/cron/v3"
)

// DefaultMaxFailures is the number of consecutive failures that escalates.
const DefaultMaxFailures = 3

// Result is what a job reports about a finished run.
type Result struct {
	State string

	// Broken marks the run as a failure even though the job returned no error.
	Broken bool
}

// Job is one run of a pipeline.
type Job func(ctx context.Context) (Result, error)

// RunContext is the state of a scheduled pipeline between ticks.
type RunContext struct {
	Running             bool
	LastRunTime         time.Time
	ConsecutiveFailures int
	LastState           string
}

// Outcome tells what happened in a tick.
type Outcome struct {
	Skipped bool
	Result  Result
	Err     error

	// Failed is true if the job returned an error or a broken result.
	Failed bool

	// Escalate is true if the consecutive failures reached the threshold.
	Escalate bool
}

// Begin marks rc as running. It reports false if rc is already running.
func Begin(rc RunContext) (RunContext, bool) {
	if rc.Running {
		return rc, false
	}
	rc.Running = true
	return rc, true
}

// Finish applies the result of a run that was started by Begin.
//
// An error counts a failure and keeps LastRunTime. A broken result counts a failure but the run itself completed.
func Finish(rc RunContext, now time.Time, res Result, err error, maxFailures int) (RunContext, Outcome) {
	rc.Running = false
	out := Outcome{Result: res, Err: err}

	switch {
	case err != nil:
		rc.ConsecutiveFailures++
		out.Failed = true
	case res.Broken:
		rc.ConsecutiveFailures++
		rc.LastRunTime = now
		rc.LastState = res.State
		out.Failed = true
	default:
		rc.ConsecutiveFailures = 0
		rc.LastRunTime = now
		rc.LastState = res.State
	}

	out.Escalate = out.Failed && maxFailures > 0 && rc.ConsecutiveFailures >= maxFailures

	return rc, out
}

// Tick runs job once unless rc is already running.
// A panic in job is recovered and treated as an error.
func Tick(ctx context.Context, rc RunContext, now time.Time, maxFailures int, job Job) (RunContext, Outcome) {
	rc, ok := Begin(rc)
	if !ok {
		return rc, Outcome{Skipped: true}
	}

	res, err := runJob(ctx, job)
	return Finish(rc, now, res, err, maxFailures)
}

func runJob(ctx context.Context, job Job) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	return job(ctx)
}

// Status is a snapshot of a Runner.
type Status struct {
	Name                string     `json:"name"`
	Schedule            string     `json:"schedule"`
	Running             bool       `json:"running"`
	LastRun             *time.Time `json:"lastRun"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastState           string     `json:"lastState,omitempty"`
}

// Runner runs a Job on a Schedule without overlapping.
type Runner struct {
	Name         string
	Schedule     Schedule
	Job          Job
	StartupDelay time.Duration
	MaxFailures  int
	Log          store.Logger

	// Now is used instead of time.Now if set.
	Now func() time.Time

	mu sync.Mutex
	rc RunContext
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Kick runs one tick now, in the caller's goroutine.
// The tick is skipped if the previous one is still in flight.
func (r *Runner) Kick(ctx context.Context) Outcome {
	log := r.Log.WithScope("scheduler:" + r.Name)

	r.mu.Lock()
	rc, ok := Begin(r.rc)
	r.rc = rc
	r.mu.Unlock()

	if !ok {
		log.Info("skipping run: previous execution still in progress", nil)
		return Outcome{Skipped: true}
	}

	log.Debug("scheduled run starting", nil)
	started := time.Now()

	res, err := runJob(ctx, r.Job)

	r.mu.Lock()
	rc, out := Finish(r.rc, r.now(), res, err, r.MaxFailures)
	r.rc = rc
	r.mu.Unlock()

	extra := map[string]interface{}{
		"duration":            time.Since(started).String(),
		"consecutiveFailures": rc.ConsecutiveFailures,
	}
	if res.State != "" {
		extra["state"] = res.State
	}

	switch {
	case err != nil:
		extra["error"] = err.Error()
		log.Error("execution error", extra)
	case res.Broken:
		log.Error("hard failure detected", extra)
	default:
		log.Info("run completed", extra)
	}

	if out.Escalate {
		// TODO: send to notify.discord_webhook and notify.email once a sender exists.
		log.Critical(fmt.Sprintf("%d consecutive failures detected", rc.ConsecutiveFailures), nil)
	}

	return out
}

// Status returns a snapshot of the runner.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Status{
		Name:                r.Name,
		Running:             r.rc.Running,
		ConsecutiveFailures: r.rc.ConsecutiveFailures,
		LastState:           r.rc.LastState,
	}
	if r.Schedule != nil {
		s.Schedule = r.Schedule.String()
	}
	if !r.rc.LastRunTime.IsZero() {
		t := r.rc.LastRunTime
		s.LastRun = &t
	}
	return s
}

// Start registers the runner to c, and kicks it after StartupDelay if the schedule wants.
// The startup kick is added to wg.
func (r *Runner) Start(ctx context.Context, c *cron.Cron, wg *sync.WaitGroup) {
	c.Schedule(r.Schedule, cron.FuncJob(func() {
		r.Kick(ctx)
	}))

	if !r.Schedule.KickOnStart() {
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.StartupDelay):
		}

		r.Log.WithScope("scheduler:"+r.Name).Info("running initial check", nil)
		r.Kick(ctx)
	}()
}
