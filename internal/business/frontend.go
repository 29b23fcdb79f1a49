package business

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

const (
	FrontendServing = "Frontend Serving"
	FrontendBoot    = "Frontend Boot"
)

func containsAny(body []byte, markers []string) bool {
	for _, m := range markers {
		if m != "" && bytes.Contains(body, []byte(m)) {
			return true
		}
	}
	return false
}

func containsAll(body []byte, markers []string) bool {
	for _, m := range markers {
		if !bytes.Contains(body, []byte(m)) {
			return false
		}
	}
	return len(markers) > 0
}

// CheckFrontend fetches the homepage and checks it is really serving the app.
func (b *Bot) CheckFrontend(ctx context.Context) []api.HealthCheck {
	u := strings.TrimRight(b.Config.Production.BaseURL, "/") + "/"

	resp, err := b.get(ctx, u, "")
	if err != nil {
		return []api.HealthCheck{b.check(FrontendServing, api.CheckFail, "Failed to reach homepage: "+err.Error(), map[string]interface{}{
			"error":       err.Error(),
			"failureType": "NETWORK_ERROR",
		})}
	}

	if resp.StatusCode != http.StatusOK {
		return []api.HealthCheck{b.check(FrontendServing, api.CheckFail, fmt.Sprintf("Homepage returned HTTP %d", resp.StatusCode), map[string]interface{}{
			"httpStatus":  resp.StatusCode,
			"failureType": "HTTP_ERROR",
		})}
	}

	ind := b.Config.Indicators

	if containsAny(resp.Body, ind.MaintenanceMarkers) {
		return []api.HealthCheck{b.check(FrontendServing, api.CheckFail, "Homepage returns maintenance page (build output missing)", map[string]interface{}{
			"httpStatus":  resp.StatusCode,
			"failureType": "MAINTENANCE_PAGE",
			"action":      "Check the build logs. Trigger a manual deploy if needed.",
		})}
	}

	hasRoot := containsAny(resp.Body, ind.AppRootMarkers)
	hasScript := bytes.Contains(resp.Body, []byte("<script"))
	hasContent := containsAll(resp.Body, ind.ContentMarkers)

	switch {
	case hasRoot && hasScript && !hasContent:
		// Not FAIL. The content may simply be rendered a little later.
		return []api.HealthCheck{b.check(FrontendBoot, api.CheckWarn, "HTML shell loads but core content missing - possible JS hydration issue", map[string]interface{}{
			"failureType":   "POSSIBLE_HYDRATION_FAILURE",
			"hasReactRoot":  hasRoot,
			"hasScriptTags": hasScript,
			"hasContent":    hasContent,
		})}
	case hasContent:
		return []api.HealthCheck{b.check(FrontendServing, api.CheckPass, "Homepage loads successfully with expected content", map[string]interface{}{
			"httpStatus": resp.StatusCode,
		})}
	default:
		return []api.HealthCheck{b.check(FrontendServing, api.CheckPass, "Homepage loads (200 OK)", map[string]interface{}{
			"httpStatus": resp.StatusCode,
		})}
	}
}
