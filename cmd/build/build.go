package build

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/fxvol/cmd/env"
	"github.com/sig-0/fxvol/surface"
	"github.com/sig-0/fxvol/surface/fetch"
	"github.com/sig-0/fxvol/surface/types"
	"github.com/sig-0/fxvol/terminal"
)

// buildCfg wraps the one-shot build configuration
type buildCfg struct {
	pair        string
	terminalURL string
	tenors      string
	timeout     time.Duration
	batchLimit  int
}

// NewBuildCmd creates the build subcommand
func NewBuildCmd() *ffcli.Command {
	cfg := &buildCfg{}

	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "build",
		ShortUsage: "build [flags]",
		LongHelp:   "Builds a single volatility surface and prints it as JSON",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *buildCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.pair,
		"pair",
		"EURUSD",
		"the currency pair to build the surface for",
	)

	fs.StringVar(
		&c.terminalURL,
		"terminal",
		"http://127.0.0.1:8194",
		"the base URL of the market-data terminal bridge",
	)

	fs.StringVar(
		&c.tenors,
		"tenors",
		"",
		"comma-separated tenor curve (defaults to the full curve)",
	)

	fs.DurationVar(
		&c.timeout,
		"timeout",
		time.Second*30,
		"the terminal request timeout",
	)

	fs.IntVar(
		&c.batchLimit,
		"limit",
		fetch.DefaultBatchLimit,
		"the per-request security limit",
	)
}

func (c *buildCfg) exec(ctx context.Context, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tenors := types.Tenors()

	if c.tenors != "" {
		tenors = nil

		for _, raw := range strings.Split(c.tenors, ",") {
			tenors = append(tenors, types.Tenor(strings.TrimSpace(raw)))
		}
	}

	client := terminal.NewClient(c.terminalURL, c.timeout)

	builder, err := surface.NewBuilder(
		client,
		surface.WithLogger(logger),
		surface.WithBatchLimit(c.batchLimit),
	)
	if err != nil {
		return fmt.Errorf("unable to create builder, %w", err)
	}

	built, err := builder.Build(ctx, c.pair, tenors)
	if err != nil {
		return fmt.Errorf("unable to build surface, %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(built)
}
