package ggbot

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// SchemaVersion is the version of the status files that this library reads and writes.
//
// Bump it whenever a field that another bot depends on changes its meaning.
const SchemaVersion = 1

// HealthCheck is one named probe result.
type HealthCheck struct {
	Name      string                 `json:"name"`
	Status    CheckStatus            `json:"status"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// DeploymentStatus compares the newest local commit with the running server.
type DeploymentStatus struct {
	LastGitCommit        string `json:"lastGitCommit"`
	RunningCommit        string `json:"runningCommit"`
	IsStale              bool   `json:"isStale"`
	StaleDurationMinutes *int   `json:"staleDurationMinutes,omitempty"`
}

// BusinessFreshness tells how long ago code, content, and social activity last changed.
type BusinessFreshness struct {
	LastCodeChange     *time.Time `json:"lastCodeChange,omitempty"`
	LastContentUpdate  *time.Time `json:"lastContentUpdate,omitempty"`
	LastSocialActivity *time.Time `json:"lastSocialActivity,omitempty"`
	DaysStale          int        `json:"daysStale"`
}

// BotStatus is the whole result of a Business Bot run.
// This is the content of status.json.
type BotStatus struct {
	SchemaVersion int                `json:"schemaVersion"`
	State         BotState           `json:"state"`
	Timestamp     time.Time          `json:"timestamp"`
	Checks        []HealthCheck      `json:"checks"`
	Deployment    *DeploymentStatus  `json:"deployment"`
	Freshness     *BusinessFreshness `json:"freshness"`
	NextAction    string             `json:"nextAction"`
	RunbookStep   string             `json:"runbookStep,omitempty"`
}

// FindCheck returns the first check that has the name.
func (s BotStatus) FindCheck(name string) (HealthCheck, bool) {
	for _, c := range s.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return HealthCheck{}, false
}

type statusHeader struct {
	SchemaVersion int     `json:"schemaVersion"`
	State         *string `json:"state"`
}

// ParseBotStatus parses status.json with validating the shared contract.
//
// It reports ErrUnsupportedSchema if the file was written with another schema version, and ErrUnknownState if the state is missing or not known.
func ParseBotStatus(data []byte) (BotStatus, error) {
	var h statusHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return BotStatus{}, err
	}

	if h.SchemaVersion != SchemaVersion {
		return BotStatus{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, h.SchemaVersion)
	}
	if h.State == nil {
		return BotStatus{}, fmt.Errorf("%w: state is missing", ErrUnknownState)
	}
	if _, ok := ParseBotState(*h.State); !ok {
		return BotStatus{}, fmt.Errorf("%w: %q", ErrUnknownState, *h.State)
	}

	var s BotStatus
	if err := json.Unmarshal(data, &s); err != nil {
		return BotStatus{}, err
	}
	return s, nil
}
