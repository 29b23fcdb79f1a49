package output_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/djjrip/ggloop-bots/internal/output"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/djjrip/ggloop-bots/internal/testutil"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMemory(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	earlier := now.Add(-3 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	tests := []struct {
		Name  string
		Mem   api.Memory
		State api.OutputState
		Want  int
	}{
		{"producing-resets", api.Memory{ConsecutiveIdleDays: 5, LastCheckDate: yesterday}, api.OutputProducing, 0},
		{"one-day", api.Memory{ConsecutiveIdleDays: 2, LastCheckDate: yesterday}, api.OutputStalled, 3},
		{"same-day", api.Memory{ConsecutiveIdleDays: 2, LastCheckDate: earlier}, api.OutputReadyButIdle, 3},
		{"week-gap", api.Memory{ConsecutiveIdleDays: 1, LastCheckDate: lastWeek}, api.OutputMisaligned, 8},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := output.UpdateMemory(tt.Mem, tt.State, now)

			assert.Equal(t, tt.Want, got.ConsecutiveIdleDays)
			assert.True(t, got.LastCheckDate.Equal(now), "last check date should be updated: %s", got.LastCheckDate)

			if tt.State == api.OutputProducing {
				require.NotNil(t, got.LastProducingDate)
				assert.True(t, got.LastProducingDate.Equal(now))
			} else {
				assert.Nil(t, got.LastProducingDate)
			}
		})
	}
}

func TestMemory_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine", "memory.json")
	m := output.Memory{Path: path}

	idle, err := m.Update(api.OutputStalled, now)
	require.NoError(t, err)
	assert.Equal(t, 1, idle, "first run")

	idle, err = m.Update(api.OutputStalled, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, idle, "rerun on the same day")

	idle, err = m.Update(api.OutputStalled, now.Add(50*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, idle, "two days later")

	idle, err = m.Update(api.OutputProducing, now.Add(51*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, idle, "producing")

	var saved api.Memory
	require.NoError(t, store.ReadJSON(path, &saved))
	assert.Equal(t, 0, saved.ConsecutiveIdleDays)
	require.NotNil(t, saved.LastProducingDate)
	assert.True(t, saved.LastProducingDate.Equal(now.Add(51*time.Hour)))
}

func TestMemory_Load(t *testing.T) {
	dir := t.TempDir()

	missing := output.Memory{Path: filepath.Join(dir, "missing.json")}
	assert.Equal(t, api.Memory{LastCheckDate: now}, missing.Load(now))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))
	rec := &testutil.Recorder{}
	assert.Equal(t, api.Memory{LastCheckDate: now}, output.Memory{Path: corrupt, Log: store.NewLogger(rec, "output", "")}.Load(now))
	assert.Equal(t, []string{"memory is not readable; starting a new one"}, rec.Messages(api.LevelWarn))

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"consecutiveIdleDays":4,"lastProducingDate":null,"lastCheckDate":"2026-07-07T09:00:00Z"}`), 0644))
	got := output.Memory{Path: valid}.Load(now)
	assert.Equal(t, 4, got.ConsecutiveIdleDays)
	assert.Nil(t, got.LastProducingDate)
	assert.True(t, got.LastCheckDate.Equal(now.Add(-24*time.Hour)))
}

func TestMemory_Load_noCheckDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"consecutiveIdleDays":6,"lastProducingDate":null}`), 0644))

	rec := &testutil.Recorder{}
	m := output.Memory{Path: path, Log: store.NewLogger(rec, "output", "")}

	got := m.Load(now)
	assert.Equal(t, 6, got.ConsecutiveIdleDays, "idle streak should be kept")
	assert.True(t, got.LastCheckDate.Equal(now), "unexpected last check date: %s", got.LastCheckDate)
	assert.Equal(t, []string{"memory has no last check date; counting from now"}, rec.Messages(api.LevelWarn))
	assert.Equal(t, []string{"output:memory"}, rec.Scopes())

	idle, err := m.Update(api.OutputStalled, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 7, idle)
}

func TestMemory_Load_missingIsQuiet(t *testing.T) {
	rec := &testutil.Recorder{}
	m := output.Memory{Path: filepath.Join(t.TempDir(), "memory.json"), Log: store.NewLogger(rec, "output", "")}

	assert.Equal(t, api.Memory{LastCheckDate: now}, m.Load(now))
	assert.Empty(t, rec.Records)
}
