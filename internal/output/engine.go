// Package output is the Autonomous Output Engine: it looks at what was shipped recently and tells what to do next.
package output

import (
	"context"
	"io"
	"time"

	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/report"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/djjrip/ggloop-bots/internal/vcs"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// RecentOutputsLimit is the maximum number of events in OutputStatus.RecentOutputs.
const RecentOutputsLimit = 10

// Engine is the Autonomous Output Engine.
type Engine struct {
	Config *config.Config
	Repo   vcs.Repository
	Log    store.Logger

	// Console receives the human readable summary. Nil means no summary.
	Console io.Writer

	// Now is used instead of time.Now if set.
	Now func() time.Time
}

// New makes an Engine for the repository in cfg.
func New(cfg *config.Config, log store.Logger) *Engine {
	return &Engine{
		Config: cfg,
		Repo:   vcs.Git{Dir: cfg.Repository},
		Log:    log,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) memory() Memory {
	return Memory{
		Path: e.Config.Output.Path(e.Config.Output.Memory),
		Log:  e.Log,
	}
}

// Run observes, decides, updates the memory, and writes output-status.json and AUTONOMOUS_OUTPUT_STATUS.md.
//
// An error means the memory or a report could not be written. The returned status is still valid.
func (e *Engine) Run(ctx context.Context) (api.OutputStatus, error) {
	log := e.Log.WithScope("output")
	now := e.now()

	log.Info("output engine starting", nil)

	platform := e.PlatformContext()
	git := e.AnalyzeGitActivity(ctx)
	events := e.ExtractOutputEvents(ctx)
	stagnationDays := DaysSinceLastMeaningfulOutput(events, now)

	log.Debug("observed", map[string]interface{}{
		"healthy":        platform.IsHealthy,
		"commits7":       git.CommitsLast7Days,
		"commits30":      git.CommitsLast30Days,
		"events":         len(events),
		"stagnationDays": stagnationDays,
	})

	state := ClassifyOutputState(platform, git, events, stagnationDays, now, PolicyFromConfig(e.Config.Thresholds))
	actions := RecommendActions(state, git)
	ApplyBlocker(actions, DetectBlocker(platform, state))

	status := api.OutputStatus{
		SchemaVersion:  api.SchemaVersion,
		State:          state,
		Timestamp:      now,
		NextActions:    actions,
		Diagnosis:      Diagnosis(state, git, stagnationDays),
		StagnationDays: stagnationDays,
	}

	meaningful := Meaningful(events)
	status.RecentOutputs = meaningful
	if len(meaningful) > RecentOutputsLimit {
		status.RecentOutputs = meaningful[:RecentOutputsLimit]
	}
	if status.RecentOutputs == nil {
		status.RecentOutputs = []api.OutputEvent{}
	}
	if len(meaningful) > 0 {
		t := meaningful[0].Timestamp
		status.LastMeaningfulOutput = &t
	}

	for _, ev := range events {
		if now.Sub(ev.Timestamp) < 7*Day {
			status.OutputCountLast7Days++
		}
	}
	status.OutputCountLast30Days = len(events)

	idle, err := e.memory().Update(state, now)
	status.ConsecutiveIdleDays = idle
	if err != nil {
		return status, err
	}

	if state == api.OutputStalled {
		log.Warn("output state: "+state.String(), map[string]interface{}{"diagnosis": status.Diagnosis})
	} else {
		log.Info("output state: "+state.String(), map[string]interface{}{"diagnosis": status.Diagnosis})
	}

	if e.Console != nil {
		report.PrintOutputSummary(e.Console, status)
	}

	out := e.Config.Output
	if err := store.WriteJSON(out.Path(out.OutputStatus), status); err != nil {
		return status, err
	}
	if err := report.WriteOutputMarkdown(out.Path(out.OutputReport), status); err != nil {
		return status, err
	}

	return status, nil
}
