package business

import (
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// DetermineState aggregates checks into the worst state.
//
// Any FAIL makes BROKEN, any WARN makes DEGRADED, and everything else including no checks is HEALTHY.
func DetermineState(checks []api.HealthCheck) api.BotState {
	state := api.StateHealthy

	for _, c := range checks {
		switch c.Status {
		case api.CheckFail:
			return api.StateBroken
		case api.CheckWarn:
			state = api.StateDegraded
		}
	}

	return state
}

// DetermineNextAction picks the single most important thing to do.
func DetermineNextAction(status api.BotStatus) string {
	if d := status.Deployment; d != nil && d.IsStale {
		return "Trigger manual deploy of commit " + d.LastGitCommit
	}

	for _, c := range status.Checks {
		if c.Status == api.CheckFail {
			return "Fix " + c.Name + ": " + c.Message
		}
	}

	for _, c := range status.Checks {
		if c.Status == api.CheckWarn {
			return "Investigate " + c.Name + ": " + c.Message
		}
	}

	return "No action required: all systems operational"
}
