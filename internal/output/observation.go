package output

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/djjrip/ggloop-bots/internal/boterr"
	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/fallback"
	"github.com/djjrip/ggloop-bots/internal/vcs"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

const (
	Day = 24 * time.Hour

	// TrackedDays is the window of history that the engine looks at.
	TrackedDays = 30

	// MaxEvents is the maximum number of commits to read as output events.
	MaxEvents = 20
)

// check names that the Business Bot writes.
const (
	frontendServing = "Frontend Serving"
	backendAPI      = "Backend API"
	deployFreshness = "Deploy Freshness"
)

// ReadPlatformContext reads status.json of the Business Bot.
//
// The error wraps os.ErrNotExist if the file is not there, and api.ErrUnsupportedSchema or api.ErrUnknownState if the file does not follow the contract.
func ReadPlatformContext(path string) (api.PlatformContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.HealthyPlatform, boterr.New(boterr.ErrStatusFile, err, "")
	}

	s, err := api.ParseBotStatus(data)
	if err != nil {
		return api.HealthyPlatform, boterr.New(boterr.ErrStatusFile, err, "%s", path)
	}

	return PlatformContextFromStatus(s), nil
}

// PlatformContextFromStatus summarizes a BotStatus.
func PlatformContextFromStatus(s api.BotStatus) api.PlatformContext {
	passed := func(name string) bool {
		c, ok := s.FindCheck(name)
		return ok && c.Status == api.CheckPass
	}

	healthy := s.State == api.StateHealthy
	days := 0
	if healthy {
		days = 7
	}

	return api.PlatformContext{
		IsHealthy:          healthy,
		DaysSinceLastIssue: days,
		FrontendLive:       passed(frontendServing),
		BackendLive:        passed(backendAPI),
		DeployFresh:        passed(deployFreshness),
	}
}

// PlatformContext reads the platform health, or assumes healthy if it can not.
func (e *Engine) PlatformContext() api.PlatformContext {
	path := e.Config.Output.Path(e.Config.Output.BusinessStatus)
	log := e.Log.WithScope("output:observe")

	return fallback.Get(api.HealthyPlatform, func() (api.PlatformContext, error) {
		return ReadPlatformContext(path)
	}).OnError(func(err error) {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("business bot status not found; assuming healthy", map[string]interface{}{"path": path})
		} else {
			log.Warn("business bot status is not usable; assuming healthy", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	})
}

// HasIndicator reports any of files contains any of indicators.
func HasIndicator(files, indicators []string) bool {
	for _, f := range files {
		for _, i := range indicators {
			if i != "" && strings.Contains(f, i) {
				return true
			}
		}
	}
	return false
}

// AnalyzeGitActivity counts recent commits and classifies changed files.
// Failed queries are counted as nothing.
func (e *Engine) AnalyzeGitActivity(ctx context.Context) api.GitActivity {
	now := e.now()
	log := e.Log.WithScope("output:git")
	warn := func(what string) func(error) {
		return func(err error) {
			log.WarnError("failed to "+what, err)
		}
	}

	last7 := fallback.Get(0, func() (int, error) {
		return e.Repo.CommitCountSince(ctx, now.Add(-7*Day))
	}).OnError(warn("count commits"))

	last30 := fallback.Get(0, func() (int, error) {
		return e.Repo.CommitCountSince(ctx, now.Add(-TrackedDays*Day))
	}).OnError(warn("count commits"))

	var lastCommit *time.Time
	if t := fallback.Get(time.Time{}, func() (time.Time, error) {
		return e.Repo.LastCommitTime(ctx)
	}).OnError(func(err error) {
		if !errors.Is(err, vcs.ErrNoCommit) {
			warn("read last commit")(err)
		}
	}); !t.IsZero() {
		lastCommit = &t
	}

	files := fallback.Get([]string{}, func() ([]string, error) {
		fs, err := e.Repo.ChangedFilesSince(ctx, now.Add(-7*Day))
		if fs == nil {
			fs = []string{}
		}
		return fs, err
	}).OnError(warn("list changed files"))

	return api.GitActivity{
		CommitsLast7Days:      last7,
		CommitsLast30Days:     last30,
		LastCommitDate:        lastCommit,
		FilesChangedLast7Days: files,
		HasProductChanges:     HasIndicator(files, e.Config.Indicators.Product),
		HasContentChanges:     HasIndicator(files, e.Config.Indicators.Content),
	}
}

// ClassifyCommit decides the category of a commit message.
// Business wins over growth when both match.
func ClassifyCommit(message string, ind config.IndicatorsConfig) api.Category {
	lower := strings.ToLower(message)

	for _, i := range ind.Business {
		if strings.Contains(lower, i) {
			return api.CategoryBusiness
		}
	}
	for _, i := range ind.Growth {
		if strings.Contains(lower, i) {
			return api.CategoryGrowth
		}
	}
	return api.CategoryProduct
}

// AssessImpact guesses the impact of a commit from its message.
func AssessImpact(message string) api.Impact {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "fix"), strings.Contains(lower, "bug"), strings.Contains(lower, "typo"):
		return api.ImpactLow
	case strings.Contains(lower, "feat"), strings.Contains(lower, "add"), strings.Contains(lower, "implement"):
		return api.ImpactHigh
	default:
		return api.ImpactMedium
	}
}

// EventsFromCommits converts commits into output events.
func EventsFromCommits(commits []vcs.Commit, ind config.IndicatorsConfig) []api.OutputEvent {
	events := make([]api.OutputEvent, 0, len(commits))

	for _, c := range commits {
		if c.Hash == "" || c.Subject == "" {
			continue
		}
		events = append(events, api.OutputEvent{
			ID:          c.ShortHash(),
			Category:    ClassifyCommit(c.Subject, ind),
			Description: c.Subject,
			Timestamp:   c.Time,
			Impact:      AssessImpact(c.Subject),
			Evidence:    c.Hash,
		})
	}

	return events
}

// ExtractOutputEvents reads the most recent commits in the tracked window as output events.
func (e *Engine) ExtractOutputEvents(ctx context.Context) []api.OutputEvent {
	commits := fallback.Get[[]vcs.Commit](nil, func() ([]vcs.Commit, error) {
		return e.Repo.Log(ctx, e.now().Add(-TrackedDays*Day), MaxEvents)
	}).OnError(func(err error) {
		e.Log.WithScope("output:git").WarnError("failed to read commit log", err)
	})

	return EventsFromCommits(commits, e.Config.Indicators)
}

// Meaningful filters events that have more than low impact.
func Meaningful(events []api.OutputEvent) []api.OutputEvent {
	var r []api.OutputEvent
	for _, e := range events {
		if e.Meaningful() {
			r = append(r, e)
		}
	}
	return r
}

// DaysSinceLastMeaningfulOutput returns whole days since the newest meaningful event.
// It returns TrackedDays if there is no meaningful event.
func DaysSinceLastMeaningfulOutput(events []api.OutputEvent, now time.Time) int {
	var latest time.Time
	for _, e := range Meaningful(events) {
		if e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}

	if latest.IsZero() {
		return TrackedDays
	}
	return int(now.Sub(latest) / Day)
}
