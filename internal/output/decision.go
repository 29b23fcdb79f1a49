package output

import (
	"fmt"
	"time"

	"github.com/djjrip/ggloop-bots/internal/config"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Policy is the thresholds of ClassifyOutputState.
type Policy struct {
	// StalledDays is the stagnation days to treat a healthy platform as STALLED.
	StalledDays int

	// MisalignedProductThreshold is the number of product events to exceed before MISALIGNED.
	MisalignedProductThreshold int
}

// DefaultPolicy is the Policy of the default configuration.
var DefaultPolicy = Policy{
	StalledDays:                7,
	MisalignedProductThreshold: 5,
}

// PolicyFromConfig makes a Policy from the configured thresholds.
func PolicyFromConfig(t config.ThresholdsConfig) Policy {
	return Policy{
		StalledDays:                t.StalledDays,
		MisalignedProductThreshold: t.MisalignedProductThreshold,
	}
}

// ClassifyOutputState decides the output state. The first matching rule wins.
//
//  1. STALLED if the platform is healthy and nothing meaningful happened for p.StalledDays.
//  2. READY_BUT_IDLE if the platform is healthy and there are commits in 7 days but none of them is meaningful.
//  3. MISALIGNED if product events exceed the threshold without any growth or business event.
//  4. PRODUCING if anything meaningful happened in 7 days.
//  5. READY_BUT_IDLE otherwise.
func ClassifyOutputState(platform api.PlatformContext, git api.GitActivity, events []api.OutputEvent, stagnationDays int, now time.Time, p Policy) api.OutputState {
	recentMeaningful := 0
	for _, e := range events {
		if e.Meaningful() && now.Sub(e.Timestamp) < 7*Day {
			recentMeaningful++
		}
	}

	if platform.IsHealthy && stagnationDays >= p.StalledDays {
		return api.OutputStalled
	}

	if platform.IsHealthy && git.CommitsLast7Days > 0 && recentMeaningful == 0 {
		return api.OutputReadyButIdle
	}

	product, growthOrBusiness := 0, 0
	for _, e := range events {
		if e.Category == api.CategoryProduct {
			product++
		} else {
			growthOrBusiness++
		}
	}
	if product > p.MisalignedProductThreshold && growthOrBusiness == 0 {
		return api.OutputMisaligned
	}

	if recentMeaningful > 0 {
		return api.OutputProducing
	}

	return api.OutputReadyButIdle
}

// Diagnosis explains the state in one paragraph.
func Diagnosis(state api.OutputState, git api.GitActivity, stagnationDays int) string {
	switch state {
	case api.OutputProducing:
		return fmt.Sprintf("Active production underway. %d commits in the last 7 days with meaningful impact.", git.CommitsLast7Days)
	case api.OutputStalled:
		return fmt.Sprintf("ALERT: No meaningful output for %d days. The platform is stable but nothing is being produced. This is a momentum problem.", stagnationDays)
	case api.OutputMisaligned:
		return "Heavy product/technical work is happening, but no growth or business output. Features without distribution = wasted effort."
	default:
		return "Platform is healthy and stable, but no high-impact output has been shipped recently. Time to ship something that matters."
	}
}

// RecommendActions lists actions for the state, most important first.
// The list always has at least one business action.
func RecommendActions(state api.OutputState, git api.GitActivity) []api.NextAction {
	var actions []api.NextAction

	switch state {
	case api.OutputStalled:
		actions = append(actions, api.NextAction{
			Priority: api.PriorityCritical,
			Category: api.CategoryGrowth,
			Action:   "Ship ONE visible output today",
			Reason:   "Momentum is dying. Any forward motion beats paralysis.",
		}, api.NextAction{
			Priority: api.PriorityHigh,
			Category: api.CategoryProduct,
			Action:   "Identify the smallest shippable feature and release it",
			Reason:   "Small wins compound. Break the stall.",
		})
	case api.OutputReadyButIdle:
		actions = append(actions, api.NextAction{
			Priority: api.PriorityHigh,
			Category: api.CategoryGrowth,
			Action:   "Post a platform update on X/Twitter",
			Reason:   "Platform is stable. Time to tell people about it.",
		}, api.NextAction{
			Priority: api.PriorityMedium,
			Category: api.CategoryBusiness,
			Action:   "Send one outreach email to potential partner",
			Reason:   "Stable platform = ready for partnerships.",
		})
	case api.OutputMisaligned:
		actions = append(actions, api.NextAction{
			Priority: api.PriorityCritical,
			Category: api.CategoryGrowth,
			Action:   "Stop building, start distributing",
			Reason:   "Product without users = vanity project.",
		}, api.NextAction{
			Priority: api.PriorityHigh,
			Category: api.CategoryGrowth,
			Action:   "Create one piece of content showcasing recent features",
			Reason:   "Translate technical work into user-facing value.",
		})
	case api.OutputProducing:
		if !git.HasContentChanges {
			actions = append(actions, api.NextAction{
				Priority: api.PriorityMedium,
				Category: api.CategoryGrowth,
				Action:   "Document what was shipped for external consumption",
				Reason:   "Production is happening but not being broadcast.",
			})
		}
	}

	for _, a := range actions {
		if a.Category == api.CategoryBusiness {
			return actions
		}
	}

	return append(actions, api.NextAction{
		Priority: api.PriorityLow,
		Category: api.CategoryBusiness,
		Action:   "Review monetization readiness",
		Reason:   "Regular revenue pulse check.",
	})
}

// DetectBlocker finds the one thing that blocks every action. It returns empty string if nothing blocks.
func DetectBlocker(platform api.PlatformContext, state api.OutputState) string {
	switch {
	case !platform.IsHealthy:
		return "Platform health issues must be resolved first."
	case !platform.FrontendLive:
		return "Frontend is down - fix before any user-facing output."
	case !platform.DeployFresh:
		return "Stale deploy detected - push latest changes to production."
	case state == api.OutputStalled:
		return "No technical blocker detected. This is a decision/action problem, not a systems problem."
	default:
		return ""
	}
}

// ApplyBlocker sets blocker to the actions that have no blocker yet.
func ApplyBlocker(actions []api.NextAction, blocker string) {
	if blocker == "" {
		return
	}
	for i := range actions {
		if actions[i].BlockedBy == "" {
			actions[i].BlockedBy = blocker
		}
	}
}
