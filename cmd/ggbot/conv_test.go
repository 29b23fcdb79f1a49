package main_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/djjrip/ggloop-bots/cmd/ggbot"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testRecords = []api.Record{
	{
		Time:    time.Date(2026, 7, 8, 9, 0, 0, 0, time.UTC),
		Level:   api.LevelInfo,
		Scope:   "business",
		Run:     "8d3c1a4e",
		Message: "business bot starting",
	},
	{
		Time:    time.Date(2026, 7, 8, 9, 0, 1, 0, time.UTC),
		Level:   api.LevelError,
		Scope:   "business:deploy",
		Run:     "8d3c1a4e",
		Message: "Deploy is stale",
		Extra:   map[string]interface{}{"commit": "abc1234"},
	},
}

func testLog() string {
	var lines []string
	for _, r := range testRecords {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n") + "\n"
}

const testLogCSV = "time,level,scope,run,message,extra\n" +
	"2026-07-08T09:00:00Z,INFO,business,8d3c1a4e,business bot starting,\n" +
	"2026-07-08T09:00:01Z,ERROR,business:deploy,8d3c1a4e,Deploy is stale,\"{\"\"commit\"\":\"\"abc1234\"\"}\"\n"

func TestConvCommand_Run(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ggbot.log")
	require.NoError(t, os.WriteFile(logPath, []byte(testLog()), 0644))

	tests := []struct {
		args   []string
		stdin  string
		stdout string
		stderr string
		code   int
	}{
		{
			[]string{},
			testLog(),
			testLogCSV,
			"",
			0,
		},
		{
			[]string{"-c"},
			testLog(),
			testLogCSV,
			"",
			0,
		},
		{
			[]string{"--csv", "-"},
			testLog(),
			testLogCSV,
			"",
			0,
		},
		{
			[]string{"-c", logPath},
			"",
			testLogCSV,
			"",
			0,
		},
		{
			[]string{logPath, "-"},
			"this is not a record\n",
			testLogCSV,
			"",
			0,
		},
		{
			[]string{"-c", logPath, logPath},
			"",
			testLogCSV + strings.SplitN(testLogCSV, "\n", 2)[1],
			"",
			0,
		},
		{
			[]string{"-l"},
			testLog(),
			"time:2026-07-08T09:00:00Z\tlevel:INFO\tscope:business\trun:8d3c1a4e\tmessage:business bot starting\n" +
				"time:2026-07-08T09:00:01Z\tlevel:ERROR\tscope:business:deploy\trun:8d3c1a4e\tmessage:Deploy is stale\tcommit:abc1234\n",
			"",
			0,
		},
		{
			[]string{"-c", "-j"},
			testLog(),
			"",
			"^error: flags for output format can not use multiple in the same time\\.\n$",
			2,
		},
		{
			[]string{"./no/such/file.log"},
			"",
			"",
			"^error: failed to open input log file: ",
			1,
		},
		{
			[]string{"-o", "./no/such/dir/out.csv"},
			testLog(),
			"",
			"^error: failed to open output log file: ",
			1,
		},
		{
			[]string{"--no-such-flag"},
			"",
			"",
			"^unknown flag: --no-such-flag\n\nPlease see `ggbot conv -h` for more information\\.\n$",
			2,
		},
		{
			[]string{"-h"},
			"",
			main.ConvHelp,
			"",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			cmd := main.ConvCommand{
				InStream:  strings.NewReader(tt.stdin),
				OutStream: &stdout,
				ErrStream: &stderr,
			}

			code := cmd.Run(append([]string{"ggbot", "conv"}, tt.args...))
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

func TestConvCommand_Run_json(t *testing.T) {
	var stdout, stderr bytes.Buffer

	cmd := main.ConvCommand{
		InStream:  strings.NewReader(testLog()),
		OutStream: &stdout,
		ErrStream: &stderr,
	}

	require.Equal(t, 0, cmd.Run([]string{"ggbot", "conv", "-j"}), stderr.String())

	var got []api.Record
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, testRecords, got)
}

func TestConvCommand_Run_xlsx(t *testing.T) {
	output := filepath.Join(t.TempDir(), "log.xlsx")

	var stdout, stderr bytes.Buffer
	cmd := main.ConvCommand{
		InStream:  strings.NewReader(testLog()),
		OutStream: &stdout,
		ErrStream: &stderr,
		Now: func() time.Time {
			return time.Date(2026, 7, 8, 10, 0, 0, 0, time.UTC)
		},
	}

	require.Equal(t, 0, cmd.Run([]string{"ggbot", "conv", "-x", "-o", output}), stderr.String())
	assert.Empty(t, stdout.String())

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("log")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"time (UTC)", "level", "scope", "run", "message", "commit"}, rows[0])
	assert.Equal(t, "ERROR", rows[2][1])
	assert.Equal(t, "abc1234", rows[2][5])
}
