package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kelseyhightower/envconfig"

	"github.com/stockdesk/stockdesk/cmd/jobsctl/cli"
)

type config struct {
	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
}

const usage = `usage: jobsctl <command> [flags]

commands:
  trigger  --entity <name|all> [--formats pdf,xlsx] [--json]
  stats    [--size 10]
`

func main() {
	if len(os.Args) < 2 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		slog.Default().Error("init jobs cli", slog.Any("error", err))
		os.Exit(1)
	}

	code := run(ctx, jobsCLI, os.Args[1], os.Args[2:])
	_ = jobsCLI.Close()
	stop()
	os.Exit(code)
}

func run(ctx context.Context, jobsCLI *cli.JobsCLI, command string, args []string) int {
	switch command {
	case "trigger":
		fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
		entity := fs.String("entity", "", "entity to snapshot, or all")
		formats := fs.String("formats", "", "comma separated formats (default all)")
		jsonOut := fs.Bool("json", false, "print task ids as JSON")
		if err := fs.Parse(args); err != nil {
			return 2
		}
		opts := cli.TriggerOptions{Entity: *entity, JSONOutput: *jsonOut}
		if *formats != "" {
			opts.Formats = strings.Split(*formats, ",")
		}
		return jobsCLI.TriggerCommand(ctx, opts)
	case "stats":
		fs := flag.NewFlagSet("stats", flag.ContinueOnError)
		size := fs.Int("size", 10, "scheduled tasks to list")
		if err := fs.Parse(args); err != nil {
			return 2
		}
		return jobsCLI.StatsCommand(ctx, *size, nil, nil)
	default:
		_, _ = fmt.Fprint(os.Stderr, usage)
		return 2
	}
}
