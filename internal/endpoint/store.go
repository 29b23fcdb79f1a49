package endpoint

import (
	"github.com/djjrip/ggloop-bots/internal/schedule"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Store is the source of the latest results.
type Store interface {
	// BusinessStatus returns the result of the latest Business Bot run.
	BusinessStatus() (api.BotStatus, bool)

	// OutputStatus returns the result of the latest Output Engine run.
	OutputStatus() (api.OutputStatus, bool)

	// Errors returns a list of internal (critical) errors.
	Errors() (healthy bool, messages []string)
}

// Runner is a scheduled pipeline.
type Runner interface {
	Status() schedule.Status
}
