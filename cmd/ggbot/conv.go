package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/djjrip/ggloop-bots/internal/logconv"
	"github.com/djjrip/ggloop-bots/internal/report"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/spf13/pflag"
)

type ConvCommand struct {
	InStream  io.Reader
	OutStream io.Writer
	ErrStream io.Writer

	// Now is used as the creation time of xlsx if set.
	Now func() time.Time
}

var defaultConvCommand = &ConvCommand{
	InStream:  os.Stdin,
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const ConvHelp = `GGBot conv -- Convert the run log of ggbot to other format

Usage: ggbot conv [OPTIONS...] [INPUT...]

Options:
  -o, --output  Output log file. (default stdout)

  -c, --csv     Convert to CSV. (default format)
  -j, --json    Convert to JSON.
  -l, --ltsv    Convert to LTSV.
  -x, --xlsx    Convert to XLSX.

  -h, --help    Show this help message and exit.
`

func (c ConvCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("ggbot conv", pflag.ContinueOnError)
	flags.Usage = func() {}

	outputPath := flags.StringP("output", "o", "", "Output log file")

	toCsv := flags.BoolP("csv", "c", false, "Convert to CSV")
	toJson := flags.BoolP("json", "j", false, "Convert to JSON")
	toLtsv := flags.BoolP("ltsv", "l", false, "Convert to LTSV")
	toXlsx := flags.BoolP("xlsx", "x", false, "Convert to XLSX")

	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s %s -h` for more information.\n", args[0], args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, ConvHelp)
		return 0
	}

	count := 0
	for _, f := range []bool{*toCsv, *toJson, *toLtsv, *toXlsx} {
		if f {
			count++
		}
	}
	if count > 1 {
		fmt.Fprintln(c.ErrStream, "error: flags for output format can not use multiple in the same time.")
		return 2
	}

	var scanners jointScanner
	for _, path := range flags.Args()[2:] {
		if path == "" || path == "-" {
			scanners = append(scanners, api.NewLogScanner(io.NopCloser(c.InStream)))
		} else {
			f, err := os.Open(path)
			if err != nil {
				fmt.Fprintf(c.ErrStream, "error: failed to open input log file: %s\n", err)
				scanners.Close()
				return 1
			}
			scanners = append(scanners, api.NewLogScanner(f))
		}
	}
	if len(scanners) == 0 {
		scanners = append(scanners, api.NewLogScanner(io.NopCloser(c.InStream)))
	}
	defer (&scanners).Close()

	output := c.OutStream
	if *outputPath != "" && *outputPath != "-" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(c.ErrStream, "error: failed to open output log file: %s\n", err)
			return 1
		}
		defer f.Close()
		output = f
	} else if *toXlsx && report.IsTerminal(output) {
		fmt.Fprintln(c.ErrStream, "error: can not write xlsx format to stdout. please redirect or use -o option.")
		return 2
	}

	var err error
	switch {
	case *toJson:
		err = logconv.ToJSON(output, &scanners)
	case *toLtsv:
		err = logconv.ToLTSV(output, &scanners)
	case *toXlsx:
		err = logconv.ToXlsx(output, &scanners, c.now())
	default:
		err = logconv.ToCSV(output, &scanners)
	}
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	}
	return 0
}

func (c ConvCommand) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// jointScanner reads multiple log files as one.
type jointScanner []*api.LogScanner

func (ss *jointScanner) Scan() bool {
	if len(*ss) == 0 {
		return false
	}

	if (*ss)[0].Scan() {
		return true
	}
	(*ss)[0].Close()
	*ss = (*ss)[1:]

	return ss.Scan()
}

func (ss *jointScanner) Record() api.Record {
	return (*ss)[0].Record()
}

func (ss *jointScanner) Close() error {
	for _, s := range *ss {
		s.Close()
	}
	return nil
}
