package ggbot

import (
	"time"
)

// OutputEvent is one unit of work inferred from a commit.
type OutputEvent struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Impact      Impact    `json:"impact"`
	Evidence    string    `json:"evidence,omitempty"`
}

// Meaningful reports the event has more than low impact.
func (e OutputEvent) Meaningful() bool {
	return e.Impact != ImpactLow
}

// NextAction is a recommended action for the founder.
type NextAction struct {
	Priority  Priority `json:"priority"`
	Category  Category `json:"category"`
	Action    string   `json:"action"`
	Reason    string   `json:"reason"`
	BlockedBy string   `json:"blockedBy,omitempty"`
}

// PlatformContext is the view of the Business Bot status from the Output Engine.
type PlatformContext struct {
	IsHealthy          bool `json:"isHealthy"`
	DaysSinceLastIssue int  `json:"daysSinceLastIssue"`
	FrontendLive       bool `json:"frontendLive"`
	BackendLive        bool `json:"backendLive"`
	DeployFresh        bool `json:"deployFresh"`
}

// HealthyPlatform is the PlatformContext used when the Business Bot status can not be read.
var HealthyPlatform = PlatformContext{
	IsHealthy:    true,
	FrontendLive: true,
	BackendLive:  true,
	DeployFresh:  true,
}

// GitActivity is the summary of recent commits.
type GitActivity struct {
	CommitsLast7Days      int        `json:"commitsLast7Days"`
	CommitsLast30Days     int        `json:"commitsLast30Days"`
	LastCommitDate        *time.Time `json:"lastCommitDate,omitempty"`
	FilesChangedLast7Days []string   `json:"filesChangedLast7Days"`
	HasProductChanges     bool       `json:"hasProductChanges"`
	HasContentChanges     bool       `json:"hasContentChanges"`
}

// OutputStatus is the whole result of an Output Engine run.
// This is the content of output-status.json.
type OutputStatus struct {
	SchemaVersion         int           `json:"schemaVersion"`
	State                 OutputState   `json:"state"`
	Timestamp             time.Time     `json:"timestamp"`
	RecentOutputs         []OutputEvent `json:"recentOutputs"`
	OutputCountLast7Days  int           `json:"outputCountLast7Days"`
	OutputCountLast30Days int           `json:"outputCountLast30Days"`
	NextActions           []NextAction  `json:"nextActions"`
	Diagnosis             string        `json:"diagnosis"`
	StagnationDays        int           `json:"stagnationDays"`
	ConsecutiveIdleDays   int           `json:"consecutiveIdleDays"`
	LastMeaningfulOutput  *time.Time    `json:"lastMeaningfulOutput,omitempty"`
}

// Memory is the only state the Output Engine keeps between runs.
type Memory struct {
	ConsecutiveIdleDays int        `json:"consecutiveIdleDays"`
	LastProducingDate   *time.Time `json:"lastProducingDate"`
	LastCheckDate       time.Time  `json:"lastCheckDate"`
}
