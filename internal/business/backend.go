package business

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/djjrip/ggloop-bots/internal/boterr"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/goccy/go-json"
)

const (
	BackendAPI         = "Backend API"
	DatabaseConnection = "Database Connection"
	ServerFreshness    = "Server Freshness"
)

// HealthResponse is the body of the backend health endpoint.
type HealthResponse struct {
	Status         string  `json:"status"`
	Database       string  `json:"database"`
	Uptime         float64 `json:"uptime"`
	Timestamp      string  `json:"timestamp"`
	DeploymentTest string  `json:"deploymentTest,omitempty"`
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// CheckBackend checks the health endpoint of the API server and its database.
func (b *Bot) CheckBackend(ctx context.Context) []api.HealthCheck {
	resp, err := b.get(ctx, b.Config.Production.HealthURL(), "application/json")
	if err != nil {
		return []api.HealthCheck{b.check(BackendAPI, api.CheckFail, "Failed to reach API: "+err.Error(), map[string]interface{}{
			"error": err.Error(),
		})}
	}

	if resp.StatusCode != http.StatusOK {
		return []api.HealthCheck{b.check(BackendAPI, api.CheckFail, fmt.Sprintf("Health endpoint returned HTTP %d", resp.StatusCode), map[string]interface{}{
			"httpStatus": resp.StatusCode,
		})}
	}

	if !isJSON(resp.ContentType) {
		return []api.HealthCheck{b.check(BackendAPI, api.CheckFail, "Health endpoint not returning JSON (server may be down)", map[string]interface{}{
			"contentType": resp.ContentType,
		})}
	}

	if containsAny(resp.Body, b.Config.Indicators.MaintenanceMarkers) {
		return []api.HealthCheck{b.check(BackendAPI, api.CheckFail, "Health endpoint returns maintenance page", nil)}
	}

	var h HealthResponse
	if err := json.Unmarshal(resp.Body, &h); err != nil {
		return []api.HealthCheck{b.check(BackendAPI, api.CheckFail, "Health endpoint returned broken JSON", map[string]interface{}{
			"error": err.Error(),
		})}
	}

	var checks []api.HealthCheck

	details := map[string]interface{}{"uptime": h.Uptime}
	if h.DeploymentTest != "" {
		details["deploymentTest"] = h.DeploymentTest
	}
	if h.Status == "healthy" {
		checks = append(checks, b.check(BackendAPI, api.CheckPass, "API responding healthy", details))
	} else {
		checks = append(checks, b.check(BackendAPI, api.CheckFail, "API status: "+h.Status, details))
	}

	if h.Database == "connected" {
		checks = append(checks, b.check(DatabaseConnection, api.CheckPass, "Database connected", nil))
	} else {
		checks = append(checks, b.check(DatabaseConnection, api.CheckFail, "Database: "+h.Database, nil))
	}

	uptimeHours := h.Uptime / 3600
	if uptimeHours > b.Config.Thresholds.StaleUptimeHours {
		checks = append(checks, b.check(ServerFreshness, api.CheckWarn, fmt.Sprintf("Server running for %.1f hours without restart", uptimeHours), map[string]interface{}{
			"uptimeHours": uptimeHours,
		}))
	}

	return checks
}

// DeployInfo is what the running server tells about itself.
type DeployInfo struct {
	UptimeSeconds  float64
	DeploymentTest string
}

// RunningDeployInfo reads uptime and deployment marker from the health endpoint.
func (b *Bot) RunningDeployInfo(ctx context.Context) (DeployInfo, error) {
	resp, err := b.get(ctx, b.Config.Production.HealthURL(), "application/json")
	if err != nil {
		return DeployInfo{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return DeployInfo{}, boterr.New(boterr.ErrHTTP, nil, "health endpoint returned HTTP %d", resp.StatusCode)
	}

	var h HealthResponse
	if err := json.Unmarshal(resp.Body, &h); err != nil {
		return DeployInfo{}, boterr.New(boterr.ErrHTTP, err, "health endpoint returned broken JSON")
	}

	return DeployInfo{
		UptimeSeconds:  h.Uptime,
		DeploymentTest: h.DeploymentTest,
	}, nil
}
