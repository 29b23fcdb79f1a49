// Package business is the Business Bot: it watches the production platform and the repository, and tells what is broken.
package business

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/report"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/djjrip/ggloop-bots/internal/vcs"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Bot is the Business Bot.
type Bot struct {
	Config *config.Config
	Repo   vcs.Repository
	Client *http.Client
	Log    store.Logger

	// Console receives the human readable summary. Nil means no summary.
	Console io.Writer

	// Now is used instead of time.Now if set.
	Now func() time.Time
}

// New makes a Bot that reads the git repository and the production server in cfg.
func New(cfg *config.Config, log store.Logger) *Bot {
	return &Bot{
		Config: cfg,
		Repo:   vcs.Git{Dir: cfg.Repository},
		Client: NewHTTPClient(cfg.Production.Timeout),
		Log:    log,
	}
}

func (b *Bot) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Bot) client() *http.Client {
	if b.Client != nil {
		return b.Client
	}
	return http.DefaultClient
}

func (b *Bot) check(name string, status api.CheckStatus, message string, details map[string]interface{}) api.HealthCheck {
	return api.HealthCheck{
		Name:      name,
		Status:    status,
		Message:   message,
		Timestamp: b.now(),
		Details:   details,
	}
}

func (b *Bot) logChecks(scope string, checks []api.HealthCheck) {
	log := b.Log.WithScope(scope)

	for _, c := range checks {
		extra := map[string]interface{}{"check": c.Name}
		switch c.Status {
		case api.CheckFail:
			log.Error(c.Message, extra)
		case api.CheckWarn:
			log.Warn(c.Message, extra)
		default:
			log.Info(c.Message, extra)
		}
	}
}

// Inspect runs every check and builds a BotStatus. It never fails.
func (b *Bot) Inspect(ctx context.Context) api.BotStatus {
	var checks []api.HealthCheck

	frontend := b.CheckFrontend(ctx)
	b.logChecks("business:frontend", frontend)
	checks = append(checks, frontend...)

	backend := b.CheckBackend(ctx)
	b.logChecks("business:backend", backend)
	checks = append(checks, backend...)

	deployment, deployChecks := b.CheckDeployment(ctx)
	b.logChecks("business:deploy", deployChecks)
	checks = append(checks, deployChecks...)

	freshness, freshnessChecks := b.CheckFreshness(ctx)
	b.logChecks("business:freshness", freshnessChecks)
	checks = append(checks, freshnessChecks...)

	status := api.BotStatus{
		SchemaVersion: api.SchemaVersion,
		State:         DetermineState(checks),
		Timestamp:     b.now(),
		Checks:        checks,
		Deployment:    deployment,
		Freshness:     &freshness,
	}
	status.NextAction = DetermineNextAction(status)

	if deployment != nil && deployment.IsStale {
		status.RunbookStep = DeployRunbook(*deployment, b.Config.Production.BaseURL)
	}

	return status
}

// Run inspects the platform, and writes status.json and STATUS.md.
//
// The returned status is valid even if writing the files failed.
func (b *Bot) Run(ctx context.Context) (api.BotStatus, error) {
	b.Log.Info("business bot starting", map[string]interface{}{"target": b.Config.Production.BaseURL})

	status := b.Inspect(ctx)

	b.Log.Info("system state: "+status.State.String(), map[string]interface{}{"nextAction": status.NextAction})

	if b.Console != nil {
		report.PrintBusinessSummary(b.Console, status)
	}

	out := b.Config.Output
	if err := store.WriteJSON(out.Path(out.BusinessStatus), status); err != nil {
		return status, err
	}
	if err := report.WriteBusinessMarkdown(out.Path(out.BusinessReport), status); err != nil {
		return status, err
	}

	return status, nil
}
