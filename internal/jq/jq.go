// Package jq runs jq filters over the status files.
package jq

import (
	"context"
	"fmt"
	"os"

	"github.com/djjrip/ggloop-bots/internal/boterr"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
)

// stateEmoji is the jq function state_emoji/0.
// It converts a state string like "BROKEN" or "STALLED" into the emoji of the reports.
func stateEmoji(x any, _ []any) any {
	s, ok := x.(string)
	if !ok {
		return fmt.Errorf("state_emoji/0: expected a string but got %T (%v)", x, x)
	}

	if st, ok := api.ParseBotState(s); ok {
		return st.Emoji()
	}
	if st, ok := api.ParseOutputState(s); ok {
		return st.Emoji()
	}
	return fmt.Errorf("state_emoji/0: unknown state: %q", s)
}

// failing is the jq function failing/0.
// It selects the checks of a business status that are not PASS.
func failing(x any, _ []any) any {
	m, ok := x.(map[string]any)
	if !ok {
		return fmt.Errorf("failing/0: expected a status object but got %T", x)
	}

	checks, _ := m["checks"].([]any)
	r := []any{}
	for _, c := range checks {
		if cm, ok := c.(map[string]any); ok && cm["status"] != api.CheckPass.String() {
			r = append(r, c)
		}
	}
	return r
}

// Query is a compiled jq filter.
type Query struct {
	code *gojq.Code
}

// Parse parses and compiles a jq filter. Empty string means ".".
func Parse(query string) (Query, error) {
	if query == "" {
		query = "."
	}

	q, err := gojq.Parse(query)
	if err != nil {
		return Query{}, err
	}

	c, err := gojq.Compile(
		q,
		gojq.WithFunction("state_emoji", 0, 0, stateEmoji),
		gojq.WithFunction("failing", 0, 0, failing),
	)
	if err != nil {
		return Query{}, err
	}

	return Query{code: c}, nil
}

// Run runs the filter and returns every output.
// "halt" stops the filter without error. "halt_error" is reported as an error.
func (q Query) Run(ctx context.Context, input any) ([]any, error) {
	outputs := []any{}

	iter := q.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if halt, ok := v.(*gojq.HaltError); ok {
			if halt.ExitCode() == 0 {
				break
			}
			return outputs, halt
		} else if err, ok := v.(error); ok {
			return outputs, err
		}
		outputs = append(outputs, v)
	}

	return outputs, nil
}

// Load reads a JSON file as the input of a Query.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, boterr.New(boterr.ErrStatusFile, err, "")
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, boterr.New(boterr.ErrStatusFile, err, "%s", path)
	}
	return v, nil
}
