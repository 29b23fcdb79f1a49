package business

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/djjrip/ggloop-bots/internal/fallback"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

const (
	GitStatus       = "Git Status"
	DeploymentCheck = "Deployment Check"
	DeployFreshness = "Deploy Freshness"
)

// CheckDeployment checks the newest local commit is running in production.
//
// The DeploymentStatus is nil if the local commit or the running server could not be read.
func (b *Bot) CheckDeployment(ctx context.Context) (*api.DeploymentStatus, []api.HealthCheck) {
	log := b.Log.WithScope("business:deploy")

	commit := fallback.Get("", func() (string, error) {
		return b.Repo.LastCommitShort(ctx)
	}).OnError(func(err error) {
		log.WarnError("failed to read local commit", err)
	})
	commitTime := fallback.Get(time.Time{}, func() (time.Time, error) {
		return b.Repo.LastCommitTime(ctx)
	}).OnError(func(err error) {
		log.WarnError("failed to read commit time", err)
	})
	info := fallback.Get[*DeployInfo](nil, func() (*DeployInfo, error) {
		i, err := b.RunningDeployInfo(ctx)
		return &i, err
	}).OnError(func(err error) {
		log.WarnError("failed to read running deployment", err)
	})

	if commit == "" {
		return nil, []api.HealthCheck{b.check(GitStatus, api.CheckWarn, "Could not determine local git commit", nil)}
	}

	if info == nil {
		return nil, []api.HealthCheck{b.check(DeploymentCheck, api.CheckFail, "Could not reach production to verify deployment", nil)}
	}

	status, check := EvaluateDeployment(commit, commitTime, *info, b.now(), b.Config.Thresholds.StaleDeployMinutes)
	return &status, []api.HealthCheck{check}
}

// EvaluateDeployment decides whether the running server predates the newest commit.
//
// A deploy is stale if the commit is older than staleMinutes and the server has been up longer than the commit exists.
// A zero commitTime is treated as just now.
func EvaluateDeployment(commit string, commitTime time.Time, info DeployInfo, now time.Time, staleMinutes int) (api.DeploymentStatus, api.HealthCheck) {
	minutesSinceCommit := 0
	if !commitTime.IsZero() {
		minutesSinceCommit = int(now.Sub(commitTime) / time.Minute)
	}
	uptimeMinutes := info.UptimeSeconds / 60

	isStale := minutesSinceCommit > staleMinutes && uptimeMinutes > float64(minutesSinceCommit)

	running := info.DeploymentTest
	if running == "" {
		running = "unknown"
	}

	status := api.DeploymentStatus{
		LastGitCommit: commit,
		RunningCommit: running,
		IsStale:       isStale,
	}

	check := api.HealthCheck{
		Name:      DeployFreshness,
		Timestamp: now,
		Details: map[string]interface{}{
			"localCommit":   commit,
			"uptimeMinutes": int(uptimeMinutes),
		},
	}

	if isStale {
		status.StaleDurationMinutes = &minutesSinceCommit

		check.Status = api.CheckFail
		check.Message = fmt.Sprintf("Deploy is stale: Commit %s pushed %d min ago but server uptime is %d min", commit, minutesSinceCommit, int(uptimeMinutes))
		check.Details["minutesSinceCommit"] = minutesSinceCommit
	} else {
		check.Status = api.CheckPass
		check.Message = "Deployment appears up-to-date"
	}

	return status, check
}

var runbookTmpl = template.Must(template.New("runbook").Parse(`## ⚠️ STALE DEPLOY DETECTED: IMMEDIATE ACTION REQUIRED

**Problem:** Commit ` + "`{{ .LastGitCommit }}`" + ` pushed {{ .StaleDurationMinutes }} min ago but NOT deployed.

---

### EXACT STEPS TO FIX (Railway Dashboard)

1. **OPEN:** https://railway.app/dashboard
2. **CLICK:** "GG-LOOP-PLATFORM" project tile
3. **CLICK:** "Deployments" in left sidebar
4. **CLICK:** Blue "Deploy" button (top right corner)
5. **SELECT:** Latest commit from dropdown (` + "`{{ .LastGitCommit }}`" + `)
6. **WAIT:** 3-5 minutes for build

---

### IF AUTO-DEPLOY IS DISABLED

1. **GO TO:** Settings tab → Triggers section
2. **ENABLE:** "Deploy on push" for ` + "`main`" + ` branch
3. **SAVE:** Configuration

---

### VERIFY FIX WORKED

After deploy completes:
- ✅ {{ .BaseURL }} shows homepage (not maintenance)
- ✅ ` + "`ggbot business`" + ` reports HEALTHY
- ✅ Server uptime < 5 minutes`))

// DeployRunbook makes the remediation steps for a stale deploy.
// It returns empty string if the deploy is not stale.
func DeployRunbook(status api.DeploymentStatus, baseURL string) string {
	if !status.IsStale {
		return ""
	}

	minutes := 0
	if status.StaleDurationMinutes != nil {
		minutes = *status.StaleDurationMinutes
	}

	var sb strings.Builder
	runbookTmpl.Execute(&sb, struct {
		LastGitCommit        string
		StaleDurationMinutes int
		BaseURL              string
	}{status.LastGitCommit, minutes, baseURL})

	return sb.String()
}
