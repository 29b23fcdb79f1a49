package business

import (
	"context"
	"fmt"
	"time"

	"github.com/djjrip/ggloop-bots/internal/fallback"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

const (
	CodeFreshness    = "Code Freshness"
	ContentFreshness = "Content Freshness"
	SocialActivity   = "Social Activity"

	// UnknownDays is the staleness of a signal that has never happened.
	UnknownDays = 999
)

// DaysSince returns whole days from t to now, or UnknownDays if t is nil.
func DaysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return UnknownDays
	}
	return int(now.Sub(*t) / (24 * time.Hour))
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// CheckFreshness checks how long ago code, content, and social automation were last touched.
func (b *Bot) CheckFreshness(ctx context.Context) (api.BusinessFreshness, []api.HealthCheck) {
	log := b.Log.WithScope("business:freshness")
	ind := b.Config.Indicators

	lastCode := timePtr(fallback.Get(time.Time{}, func() (time.Time, error) {
		return b.Repo.LastCommitTime(ctx)
	}).OnError(func(err error) {
		log.WarnError("failed to read last commit", err)
	}))

	lastContent := timePtr(fallback.Get(time.Time{}, func() (time.Time, error) {
		return b.Repo.LastCommitTime(ctx, ind.ContentPaths...)
	}).OnError(func(err error) {
		log.Debug("no content commit found", map[string]interface{}{"error": err.Error()})
	}))
	if lastContent == nil {
		lastContent = lastCode
	}

	var lastSocial *time.Time
	if len(ind.SocialPaths) > 0 {
		lastSocial = timePtr(fallback.Get(time.Time{}, func() (time.Time, error) {
			return b.Repo.LastCommitTime(ctx, ind.SocialPaths...)
		}).OnError(nil))
	}

	return EvaluateFreshness(lastCode, lastContent, lastSocial, b.now(), b.Config.Thresholds.StalenessCriticalDays)
}

// EvaluateFreshness makes freshness checks from the last change times.
func EvaluateFreshness(lastCode, lastContent, lastSocial *time.Time, now time.Time, criticalDays int) (api.BusinessFreshness, []api.HealthCheck) {
	codeDays := DaysSince(lastCode, now)
	contentDays := DaysSince(lastContent, now)

	freshness := api.BusinessFreshness{
		LastCodeChange:     lastCode,
		LastContentUpdate:  lastContent,
		LastSocialActivity: lastSocial,
		DaysStale:          min(codeDays, contentDays),
	}

	var checks []api.HealthCheck

	if codeDays >= criticalDays {
		var details map[string]interface{}
		if lastCode != nil {
			details = map[string]interface{}{"lastChange": lastCode.UTC().Format(time.RFC3339)}
		}
		checks = append(checks, api.HealthCheck{
			Name:      CodeFreshness,
			Status:    api.CheckWarn,
			Message:   fmt.Sprintf("No code changes for %d days", codeDays),
			Timestamp: now,
			Details:   details,
		})
	} else {
		checks = append(checks, api.HealthCheck{
			Name:      CodeFreshness,
			Status:    api.CheckPass,
			Message:   fmt.Sprintf("Last code change: %d days ago", codeDays),
			Timestamp: now,
		})
	}

	if contentDays >= criticalDays {
		checks = append(checks, api.HealthCheck{
			Name:      ContentFreshness,
			Status:    api.CheckWarn,
			Message:   fmt.Sprintf("No content updates for %d days", contentDays),
			Timestamp: now,
		})
	}

	if lastSocial == nil {
		checks = append(checks, api.HealthCheck{
			Name:      SocialActivity,
			Status:    api.CheckWarn,
			Message:   "No social automation detected (hook available but not wired)",
			Timestamp: now,
		})
	}

	return freshness, checks
}
