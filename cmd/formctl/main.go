package main

import (
	"context"
	"errors"
	"fmt"
	"formflow/cmd/formctl/wire"
	"formflow/internal/infra/telemetry"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

type command struct {
	summary string
	run     func(ctx context.Context, services *wire.Services, args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"list":    {"list persisted forms", runList},
	"links":   {"list analytics pages of persisted forms", runLinks},
	"show":    {"print the schema of a form", runShow},
	"create":  {"create a form from a YAML definition", runCreate},
	"respond": {"submit a response to a form", runRespond},
	"watch":   {"follow the live analytics of a form", runWatch},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "formctl: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	services, err := wire.InitializeServices()
	if err != nil {
		fmt.Fprintf(stderr, "formctl: %v\n", err)
		return 1
	}
	services.Log.Debugw("config loaded", "data", services.Config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Start(ctx, telemetry.Config{
		Enabled:  services.Config.Telemetry.Enabled,
		Endpoint: services.Config.Telemetry.OtelcolEndpoint,
	}, services.Log)
	if err != nil {
		fmt.Fprintf(stderr, "formctl: starting telemetry: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			services.Log.Warnw("telemetry shutdown failed", "error", err)
		}
	}()

	if err := cmd.run(ctx, services, args[1:], stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "formctl %s: %v\n", args[0], err)
		return 1
	}

	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: formctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
}
