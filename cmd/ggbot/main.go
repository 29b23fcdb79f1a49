package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/template"

	"github.com/djjrip/ggloop-bots/internal/config"
	"github.com/djjrip/ggloop-bots/internal/meta"
	"github.com/djjrip/ggloop-bots/internal/store"
	"github.com/spf13/pflag"
)

type GGBotCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	ConfigPath  string
	StorePath   string
	ShowVersion bool
	ShowHelp    bool

	Command string
	Config  *config.Config

	configMu sync.Mutex
}

// CurrentConfig returns the configuration. It is safe to call while serve reloads it.
func (cmd *GGBotCommand) CurrentConfig() *config.Config {
	cmd.configMu.Lock()
	defer cmd.configMu.Unlock()
	return cmd.Config
}

// ReloadConfig loads the configuration file again.
// An invalid file is reported to log, and the previous configuration is kept.
func (cmd *GGBotCommand) ReloadConfig(log store.Logger) {
	cfg, err := config.Load(cmd.ConfigPath)
	if err != nil {
		log.WarnError("failed to reload configuration; keep using the previous one", err)
		return
	}

	cmd.configMu.Lock()
	cmd.Config = cfg
	cmd.configMu.Unlock()

	log.Info("configuration reloaded", map[string]interface{}{"path": cmd.ConfigPath})
}

var defaultGGBotCommand = &GGBotCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *GGBotCommand) PrintUsage(detail bool) {
	cfg := cmd.Config
	if cfg == nil {
		cfg = config.Default()
	}

	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":  meta.Version,
		"Interval": cfg.Schedule.Interval,
		"Listen":   cfg.Schedule.Listen,
		"Short":    !detail,
	})
}

func (cmd *GGBotCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("ggbot", pflag.ContinueOnError)
	flags.Usage = func() {}

	flags.StringVarP(&cmd.ConfigPath, "config", "c", "", "Path to configuration file")
	flags.StringVarP(&cmd.StorePath, "log-file", "f", "ggbot.log", "Path to log file")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if cmd.StorePath == "-" {
		cmd.StorePath = ""
	}

	switch flags.NArg() {
	case 0:
		cmd.PrintUsage(false)
		return 2
	case 1:
		cmd.Command = flags.Arg(0)
	default:
		fmt.Fprintf(cmd.ErrStream, "error: too many arguments: %v\n", flags.Args()[1:])
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	switch cmd.Command {
	case "business", "output", "all", "serve":
	default:
		fmt.Fprintf(cmd.ErrStream, "error: unknown command: %s\n", cmd.Command)
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 2
	}

	var err error
	cmd.Config, err = config.Load(cmd.ConfigPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 2
	}

	return 0
}

func (cmd *GGBotCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "GGBot version %s (%s)\n", meta.Version, meta.Commit)
}

func (cmd *GGBotCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		cmd.PrintUsage(true)
		return 0
	}

	s, err := store.New(cmd.StorePath, cmd.OutStream)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: failed to open log file: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cmd.Command == "serve" {
		exitCode = cmd.RunServer(ctx, s)
	} else {
		cmd.RunOnce(ctx, s)
	}

	s.Close()

	healthy, _ := s.Errors()
	if exitCode == 0 && !healthy {
		return 1
	}

	return exitCode
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "conv", "convert":
			os.Exit(defaultConvCommand.Run(os.Args))
		case "query", "jq":
			os.Exit(defaultQueryCommand.Run(os.Args))
		}
	}

	os.Exit(defaultGGBotCommand.Run(os.Args))
}
