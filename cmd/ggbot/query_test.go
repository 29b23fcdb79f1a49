package main_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/djjrip/ggloop-bots/cmd/ggbot"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/djjrip/ggloop-bots/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand_Run(t *testing.T) {
	t.Setenv("GGLOOP_BASE_URL", "")
	t.Setenv("PRODUCTION_URL", "")

	dir := t.TempDir()
	businessPath := filepath.Join(dir, "business-bot", "status.json")
	outputPath := filepath.Join(dir, "autonomous-output-engine", "output-status.json")
	require.NoError(t, store.WriteJSON(businessPath, testutil.BotStatus()))
	require.NoError(t, store.WriteJSON(outputPath, testutil.OutputStatus()))

	confPath := filepath.Join(t.TempDir(), "ggbot.yaml")
	require.NoError(t, os.WriteFile(confPath, []byte(fmt.Sprintf("output:\n  dir: %q\n", dir)), 0644))

	tests := []struct {
		args   []string
		stdout string
		stderr string
		code   int
	}{
		{
			[]string{"-f", businessPath, ".state"},
			"\"BROKEN\"\n",
			"",
			0,
		},
		{
			[]string{"--file", businessPath, "-r", ".state | state_emoji"},
			"🔴\n",
			"",
			0,
		},
		{
			[]string{"-f", businessPath, "-r", "failing | .[].name"},
			"Deploy Freshness\nCode Freshness\n",
			"",
			0,
		},
		{
			[]string{"-f", businessPath, ".deployment | {isStale, staleDurationMinutes}"},
			"{\n  \"isStale\": true,\n  \"staleDurationMinutes\": 95\n}\n",
			"",
			0,
		},
		{
			[]string{"-c", confPath, "-o", "-r", ".state"},
			"STALLED\n",
			"",
			0,
		},
		{
			[]string{"-c", confPath, ".schemaVersion"},
			"1\n",
			"",
			0,
		},
		{
			[]string{"-f", businessPath, ".state, halt_error"},
			"\"BROKEN\"\n",
			`^error: `,
			5,
		},
		{
			[]string{"-f", businessPath, ".state | halt"},
			"",
			"",
			0,
		},
		{
			[]string{"-f", businessPath, ".["},
			"",
			`^error: invalid filter: `,
			2,
		},
		{
			[]string{"-f", filepath.Join(dir, "no-such-file.json"), "."},
			"",
			`^error: open `,
			1,
		},
		{
			[]string{"-f", businessPath, ".state", ".checks"},
			"",
			`^error: too many arguments\.`,
			2,
		},
		{
			[]string{"--no-such-flag"},
			"",
			"^unknown flag: --no-such-flag\n\nPlease see `ggbot query -h` for more information\\.\n$",
			2,
		},
		{
			[]string{"-h"},
			main.QueryHelp,
			"",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			cmd := main.QueryCommand{
				OutStream: &stdout,
				ErrStream: &stderr,
			}

			code := cmd.Run(append([]string{"ggbot", "query"}, tt.args...))
			if code != tt.code {
				t.Errorf("unexpected exit code: expected %d but got %d", tt.code, code)
			}

			if stdout.String() != tt.stdout {
				t.Errorf("unexpected stdout:\nexpected:\n%s\nbut got:\n%s", tt.stdout, stdout.String())
			}

			if tt.stderr == "" {
				if stderr.Len() != 0 {
					t.Errorf("unexpected stderr:\n%s", stderr.String())
				}
			} else if ok, _ := regexp.MatchString(tt.stderr, stderr.String()); !ok {
				t.Errorf("unexpected stderr: pattern %q\n%s", tt.stderr, stderr.String())
			}
		})
	}
}
