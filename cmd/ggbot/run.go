package main

import (
	"context"

	"github.com/djjrip/ggloop-bots/internal/business"
	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/output"
	"github.com/djjrip/ggloop-bots/internal/schedule"
	"github.com/djjrip/ggloop-bots/internal/store"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/google/uuid"
)

func (cmd *GGBotCommand) runBusiness(ctx context.Context, cfg *config.Config, s *store.Store, log store.Logger) (schedule.Result, error) {
	bot := business.New(cfg, log.WithScope("business"))
	bot.Console = cmd.OutStream

	status, err := bot.Run(ctx)
	s.SetBusinessStatus(status)

	return schedule.Result{
		State:  status.State.String(),
		Broken: status.State == api.StateBroken,
	}, err
}

func (cmd *GGBotCommand) runOutput(ctx context.Context, cfg *config.Config, s *store.Store, log store.Logger) (schedule.Result, error) {
	engine := output.New(cfg, log)
	engine.Console = cmd.OutStream

	status, err := engine.Run(ctx)
	s.SetOutputStatus(status)

	return schedule.Result{State: status.State.String()}, err
}

// MakeJob makes a job for the scheduler. Each run of the job gets its own run ID,
// and reads the configuration at the time it starts.
func (cmd *GGBotCommand) MakeJob(s *store.Store, pipeline string) schedule.Job {
	run := cmd.runBusiness
	if pipeline == "output" {
		run = cmd.runOutput
	}

	return func(ctx context.Context) (schedule.Result, error) {
		return run(ctx, cmd.CurrentConfig(), s, store.NewLogger(s, "ggbot", uuid.NewString()))
	}
}

// RunOnce runs the pipelines of cmd.Command once.
// A failed run is reported to the log, but it does not stop the next pipeline.
func (cmd *GGBotCommand) RunOnce(ctx context.Context, s *store.Store) {
	cfg := cmd.CurrentConfig()
	log := store.NewLogger(s, "ggbot", uuid.NewString())

	if cmd.Command == "business" || cmd.Command == "all" {
		if _, err := cmd.runBusiness(ctx, cfg, s, log); err != nil {
			log.WithScope("business").Error("business bot failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if cmd.Command == "output" || cmd.Command == "all" {
		if _, err := cmd.runOutput(ctx, cfg, s, log); err != nil {
			log.WithScope("output").Error("output engine failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
