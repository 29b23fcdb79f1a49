package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/jq"
	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
)

type QueryCommand struct {
	OutStream io.Writer
	ErrStream io.Writer
}

var defaultQueryCommand = &QueryCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const QueryHelp = `GGBot query -- Run a jq filter over a status file

Usage: ggbot query [OPTIONS...] [FILTER]

Options:
  -f, --file    Status file to read. (default business-bot/status.json)
  -o, --output  Read autonomous-output-engine/output-status.json instead.
  -c, --config  Path to the YAML configuration file.
  -r, --raw     Print strings without quotes.

  -h, --help    Show this help message and exit.

Functions:
  state_emoji   Convert a state like "BROKEN" to the emoji of the reports.
  failing       Select the checks of a business status that are not PASS.

Examples:
  $ ggbot query '.state'
  $ ggbot query -r 'failing | .[].name'
  $ ggbot query -o '.nextActions[0].action'
`

func (c QueryCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("ggbot query", pflag.ContinueOnError)
	flags.Usage = func() {}

	filePath := flags.StringP("file", "f", "", "Status file to read")
	useOutput := flags.BoolP("output", "o", false, "Read the status of Output Engine")
	configPath := flags.StringP("config", "c", "", "Path to configuration file")
	raw := flags.BoolP("raw", "r", false, "Print strings without quotes")

	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s %s -h` for more information.\n", args[0], args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, QueryHelp)
		return 0
	}

	rest := flags.Args()[2:]
	if len(rest) > 1 {
		fmt.Fprintln(c.ErrStream, "error: too many arguments. please give only one filter.")
		return 2
	}

	filter := ""
	if len(rest) == 1 {
		filter = rest[0]
	}

	q, err := jq.Parse(filter)
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: invalid filter: %s\n", err)
		return 2
	}

	path := *filePath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: %s\n", err)
			return 2
		}
		if *useOutput {
			path = cfg.Output.Path(cfg.Output.OutputStatus)
		} else {
			path = cfg.Output.Path(cfg.Output.BusinessStatus)
		}
	}

	input, err := jq.Load(path)
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	}

	outputs, err := q.Run(context.Background(), input)

	enc := json.NewEncoder(c.OutStream)
	enc.SetIndent("", "  ")
	for _, v := range outputs {
		if s, ok := v.(string); ok && *raw {
			fmt.Fprintln(c.OutStream, s)
		} else if e := enc.Encode(v); e != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to encode result: %s\n", e)
			return 1
		}
	}

	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 5
	}
	return 0
}
