package main_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/djjrip/ggloop-bots/cmd/ggbot"
	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/schedule"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/djjrip/ggloop-bots/internal/testutil"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func MakeServeCommand(t *testing.T, baseURL string) *main.GGBotCommand {
	t.Helper()

	cfg := config.Default()
	dir := t.TempDir()
	cfg.Repository = dir
	cfg.Production.BaseURL = baseURL
	cfg.Output.Dir = dir
	cfg.Schedule.Listen = "127.0.0.1:0"
	cfg.Schedule.StartupDelay = 10 * time.Millisecond

	cmd, _ := MakeTestCommand(t)
	cmd.Command = "serve"
	cmd.Config = cfg

	return cmd
}

func TestGGBotCommand_RunServer(t *testing.T) {
	prod := StartProduction(t)
	cmd := MakeServeCommand(t, prod.URL)
	s := testutil.NewStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int)
	go func() {
		done <- cmd.RunServer(ctx, s)
	}()

	deadline := time.Now().Add(10 * time.Second)
	for {
		_, business := s.BusinessStatus()
		_, output := s.OutputStatus()
		if business && output {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("pipelines did not run on start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestGGBotCommand_RunServer_invalidSchedule(t *testing.T) {
	cmd := MakeServeCommand(t, "https://ggloop.io")
	cmd.Config.Schedule.Interval = "sometimes"

	assert.Equal(t, 2, cmd.RunServer(context.Background(), testutil.NewStore(t)))
	assert.Contains(t, cmd.ErrStream.(*Buffer).String(), "error: invalid schedule.interval: ")
}

func TestGGBotCommand_RunServer_reloadConfig(t *testing.T) {
	t.Setenv("GGLOOP_BASE_URL", "")
	t.Setenv("PRODUCTION_URL", "")

	prod := StartProduction(t)
	path, dir := WriteConfig(t, prod.URL)

	cmd := MakeServeCommand(t, prod.URL)
	cmd.ConfigPath = path
	s := testutil.NewStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int)
	go func() {
		done <- cmd.RunServer(ctx, s)
	}()

	moved := StartProduction(t)
	conf := fmt.Sprintf("repository: %q\nproduction:\n  base_url: %q\noutput:\n  dir: %q\n", dir, moved.URL, dir)

	deadline := time.Now().Add(10 * time.Second)
	for cmd.CurrentConfig().Production.BaseURL != moved.URL {
		if time.Now().After(deadline) {
			t.Fatalf("configuration was not reloaded")
		}
		require.NoError(t, os.WriteFile(path, []byte(conf), 0644))
		time.Sleep(50 * time.Millisecond)
	}

	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestGGBotCommand_ReloadConfig(t *testing.T) {
	t.Setenv("GGLOOP_BASE_URL", "")
	t.Setenv("PRODUCTION_URL", "")

	path, _ := WriteConfig(t, "https://first.example.com")

	cmd, _ := MakeTestCommand(t)
	require.Equal(t, 0, cmd.ParseArgs([]string{"ggbot", "-c", path, "serve"}))

	rec := &testutil.Recorder{}
	log := store.NewLogger(rec, "ggbot:config", "")

	require.NoError(t, os.WriteFile(path, []byte("production:\n  base_url: https://second.example.com\n"), 0644))
	cmd.ReloadConfig(log)
	assert.Equal(t, "https://second.example.com", cmd.CurrentConfig().Production.BaseURL)

	require.NoError(t, os.WriteFile(path, []byte("production:\n  base_url: ftp://second.example.com\n"), 0644))
	cmd.ReloadConfig(log)
	assert.Equal(t, "https://second.example.com", cmd.CurrentConfig().Production.BaseURL, "invalid file should keep the previous configuration")

	assert.Equal(t, []string{"configuration reloaded"}, rec.Messages(api.LevelInfo))
	assert.Equal(t, []string{"failed to reload configuration; keep using the previous one"}, rec.Messages(api.LevelWarn))
}

func TestGGBotCommand_MakeRunners(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(broken.Close)

	cmd := MakeServeCommand(t, broken.URL)
	s := testutil.NewStore(t)

	business, output := cmd.MakeRunners(s, schedule.Default)

	out := business.Kick(context.Background())
	require.NoError(t, out.Err)
	assert.True(t, out.Result.Broken, "unreachable production should be a hard failure")
	assert.Equal(t, "BROKEN", out.Result.State)
	assert.Equal(t, 1, business.Status().ConsecutiveFailures)

	st, ok := s.BusinessStatus()
	require.True(t, ok)
	assert.Equal(t, api.StateBroken, st.State)

	// output runs in the same tick, right after the business status was written.
	ost, ok := s.OutputStatus()
	require.True(t, ok, "output should run after business")
	assert.Equal(t, "Platform health issues must be resolved first.", ost.NextActions[0].BlockedBy)

	outStatus := output.Status()
	require.NotNil(t, outStatus.LastRun)
	assert.False(t, outStatus.Running)
	assert.Equal(t, 0, outStatus.ConsecutiveFailures)
	assert.Equal(t, ost.State.String(), outStatus.LastState)
}
