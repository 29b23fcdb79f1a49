package testutil

import (
	"time"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// StatusTime is the timestamp of the statuses made by BotStatus and OutputStatus.
var StatusTime = time.Date(2026, 7, 8, 9, 0, 0, 0, time.UTC)

// BotStatus makes a BROKEN status with a stale deploy.
func BotStatus() api.BotStatus {
	stale := 95
	code := StatusTime.Add(-95 * time.Minute)

	return api.BotStatus{
		SchemaVersion: api.SchemaVersion,
		State:         api.StateBroken,
		Timestamp:     StatusTime,
		Checks: []api.HealthCheck{
			{Name: "Frontend Serving", Status: api.CheckPass, Message: "Homepage loads successfully with expected content", Timestamp: StatusTime},
			{Name: "Backend API", Status: api.CheckPass, Message: "API responding healthy", Timestamp: StatusTime},
			{Name: "Deploy Freshness", Status: api.CheckFail, Message: "Deploy is stale: Commit abc1234 pushed 95 min ago but server uptime is 300 min", Timestamp: StatusTime},
			{Name: "Code Freshness", Status: api.CheckWarn, Message: "No code changes in 5 days", Timestamp: StatusTime},
		},
		Deployment: &api.DeploymentStatus{
			LastGitCommit:        "abc1234",
			RunningCommit:        "unknown",
			IsStale:              true,
			StaleDurationMinutes: &stale,
		},
		Freshness: &api.BusinessFreshness{
			LastCodeChange: &code,
			DaysStale:      0,
		},
		NextAction: "Trigger manual deploy of commit abc1234",
	}
}

// OutputStatus makes a STALLED status.
func OutputStatus() api.OutputStatus {
	return api.OutputStatus{
		SchemaVersion:         api.SchemaVersion,
		State:                 api.OutputStalled,
		Timestamp:             StatusTime,
		RecentOutputs:         []api.OutputEvent{},
		OutputCountLast7Days:  2,
		OutputCountLast30Days: 9,
		NextActions: []api.NextAction{
			{Priority: api.PriorityCritical, Category: api.CategoryGrowth, Action: "Ship ONE visible output today", Reason: "Momentum is dying. Any forward motion beats paralysis."},
		},
		Diagnosis:           "ALERT: No meaningful output for 12 days. The platform is stable but nothing is being produced. This is a momentum problem.",
		StagnationDays:      12,
		ConsecutiveIdleDays: 4,
	}
}
