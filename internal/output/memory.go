package output

import (
	"errors"
	"os"
	"time"

	"github.com/djjrip/ggloop-bots/internal/store"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Memory is the file that keeps api.Memory between runs.
type Memory struct {
	Path string
	Log  store.Logger
}

// Load reads the memory file.
//
// A missing or broken file is read as a fresh memory that was checked at now.
// A memory without lastCheckDate keeps its idle counter and counts from now.
func (m Memory) Load(now time.Time) api.Memory {
	log := m.Log.WithScope("output:memory")

	var mem api.Memory
	if err := store.ReadJSON(m.Path, &mem); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("memory is not readable; starting a new one", map[string]interface{}{
				"path":  m.Path,
				"error": err.Error(),
			})
		}
		return api.Memory{LastCheckDate: now}
	}

	if mem.LastCheckDate.IsZero() {
		log.Warn("memory has no last check date; counting from now", map[string]interface{}{
			"path":                m.Path,
			"consecutiveIdleDays": mem.ConsecutiveIdleDays,
		})
		mem.LastCheckDate = now
	}

	return mem
}

// Update loads the memory, applies state, and saves it.
// It returns the consecutive idle days after update.
func (m Memory) Update(state api.OutputState, now time.Time) (int, error) {
	mem := UpdateMemory(m.Load(now), state, now)

	if err := store.WriteJSON(m.Path, mem); err != nil {
		return mem.ConsecutiveIdleDays, err
	}
	return mem.ConsecutiveIdleDays, nil
}

// UpdateMemory applies the result of a run to mem.
//
// PRODUCING resets the idle counter. Any other state adds the days since the last check, at least 1.
func UpdateMemory(mem api.Memory, state api.OutputState, now time.Time) api.Memory {
	if state == api.OutputProducing {
		mem.ConsecutiveIdleDays = 0
		mem.LastProducingDate = &now
	} else {
		days := int(now.Sub(mem.LastCheckDate) / Day)
		mem.ConsecutiveIdleDays += max(1, days)
	}

	mem.LastCheckDate = now
	return mem
}
