package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/djjrip/ggloop-bots/internal/endpoint"
	"github.com/djjrip/ggloop-bots/internal/meta"
	"github.com/djjrip/ggloop-bots/internal/schedule"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/robfig/cron/v3"
)

func (cmd *GGBotCommand) reportStartLog(log store.Logger, listen string, sched schedule.Schedule) {
	log.Info("start ggbot server", map[string]interface{}{
		"url":      fmt.Sprintf("http://%s", listen),
		"schedule": sched.String(),
		"target":   cmd.CurrentConfig().Production.BaseURL,
		"version":  fmt.Sprintf("%s (%s)", meta.Version, meta.Commit),
	})
}

// MakeRunners makes the runners of the Business Bot and the Output Engine.
//
// Only business is scheduled. Each business run kicks output right after it wrote the status file,
// so output always reads the latest platform health and the two never run in parallel.
func (cmd *GGBotCommand) MakeRunners(s *store.Store, sched schedule.Schedule) (business, output *schedule.Runner) {
	cfg := cmd.CurrentConfig()
	log := store.NewLogger(s, "ggbot", "")

	output = &schedule.Runner{
		Name:        "output",
		Schedule:    sched,
		Job:         cmd.MakeJob(s, "output"),
		MaxFailures: cfg.Thresholds.MaxConsecutiveFailures,
		Log:         log,
	}

	businessJob := cmd.MakeJob(s, "business")
	business = &schedule.Runner{
		Name:     "business",
		Schedule: sched,
		Job: func(ctx context.Context) (schedule.Result, error) {
			res, err := businessJob(ctx)
			output.Kick(ctx)
			return res, err
		},
		StartupDelay: cfg.Schedule.StartupDelay,
		MaxFailures:  cfg.Thresholds.MaxConsecutiveFailures,
		Log:          log,
	}

	return business, output
}

func (cmd *GGBotCommand) RunServer(ctx context.Context, s *store.Store) (exitCode int) {
	startDebugLogger(s)

	// schedule and listen are read only here. Changing them needs a restart.
	cfg := cmd.CurrentConfig()

	sched, err := schedule.Parse(cfg.Schedule.Interval, time.Now())
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: invalid schedule.interval: %s\n", err)
		return 2
	}

	ln, err := net.Listen("tcp", cfg.Schedule.Listen)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to listen: %s\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := store.NewLogger(s, "ggbot", "")
	cmd.reportStartLog(log, ln.Addr().String(), sched)

	businessRunner, outputRunner := cmd.MakeRunners(s, sched)

	scheduler := cron.New()
	wg := &sync.WaitGroup{}

	businessRunner.Start(ctx, scheduler, wg)

	if cmd.ConfigPath != "" {
		err = schedule.Watch(ctx, cmd.ConfigPath, log, wg, func() {
			cmd.ReloadConfig(log.WithScope("ggbot:config"))
		})
		if err != nil {
			log.WarnError("failed to watch configuration file; changes need a restart", err)
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Handler:           endpoint.New(s, []endpoint.Runner{businessRunner, outputRunner}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(2)
	go func() {
		<-ctx.Done()

		go func() {
			<-scheduler.Stop().Done()
			wg.Done()
		}()

		if err := srv.Shutdown(context.Background()); err != nil {
			log.WithScope("ggbot:endpoint").Error("failed to shutdown endpoint", map[string]interface{}{"error": err.Error()})
		}
		wg.Done()
	}()

	if err := srv.Serve(ln); err != http.ErrServerClosed {
		log.WithScope("ggbot:endpoint").Error("endpoint has stopped", map[string]interface{}{"error": err.Error()})
		exitCode = 1
	}
	cancel()

	wg.Wait()

	log.Info("stop ggbot server", nil)

	return exitCode
}
