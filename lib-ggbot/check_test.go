package ggbot_test

import (
	"errors"
	"testing"

	"github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/goccy/go-json"
)

func TestParseBotStatus(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		State ggbot.BotState
		Error error
	}{
		{
			Name:  "healthy",
			Input: `{"schemaVersion":1,"state":"HEALTHY","checks":[{"name":"Frontend Serving","status":"PASS"}]}`,
			State: ggbot.StateHealthy,
		},
		{
			Name:  "broken",
			Input: `{"schemaVersion":1,"state":"BROKEN","checks":[]}`,
			State: ggbot.StateBroken,
		},
		{
			Name:  "no-version",
			Input: `{"state":"HEALTHY","checks":[]}`,
			Error: ggbot.ErrUnsupportedSchema,
		},
		{
			Name:  "future-version",
			Input: `{"schemaVersion":2,"state":"HEALTHY"}`,
			Error: ggbot.ErrUnsupportedSchema,
		},
		{
			Name:  "missing-state",
			Input: `{"schemaVersion":1,"checks":[]}`,
			Error: ggbot.ErrUnknownState,
		},
		{
			Name:  "unknown-state",
			Input: `{"schemaVersion":1,"state":"ON_FIRE"}`,
			Error: ggbot.ErrUnknownState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			s, err := ggbot.ParseBotStatus([]byte(tt.Input))
			if tt.Error != nil {
				if !errors.Is(err, tt.Error) {
					t.Fatalf("expected %q but got %v", tt.Error, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if s.State != tt.State {
				t.Errorf("expected %s but got %s", tt.State, s.State)
			}
		})
	}
}

func TestBotStatus_FindCheck(t *testing.T) {
	s := ggbot.BotStatus{
		Checks: []ggbot.HealthCheck{
			{Name: "Frontend Serving", Status: ggbot.CheckPass},
			{Name: "Backend API", Status: ggbot.CheckFail},
		},
	}

	if c, ok := s.FindCheck("Backend API"); !ok || c.Status != ggbot.CheckFail {
		t.Errorf("unexpected result: %v %v", c, ok)
	}
	if _, ok := s.FindCheck("Deploy Freshness"); ok {
		t.Errorf("found a check that does not exist")
	}
}

func TestCheckStatus_json(t *testing.T) {
	var c ggbot.HealthCheck
	if err := json.Unmarshal([]byte(`{"name":"x","status":"WARN"}`), &c); err != nil {
		t.Fatalf("failed to unmarshal: %s", err)
	}
	if c.Status != ggbot.CheckWarn {
		t.Errorf("expected WARN but got %s", c.Status)
	}

	if err := json.Unmarshal([]byte(`{"name":"x","status":"what"}`), &c); err != nil {
		t.Fatalf("failed to unmarshal: %s", err)
	}
	if c.Status != ggbot.CheckFail {
		t.Errorf("unknown status should be FAIL but got %s", c.Status)
	}
}
