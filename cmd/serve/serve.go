package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxvol/cache/memory"
	"github.com/sig-0/fxvol/cmd/env"
	"github.com/sig-0/fxvol/metrics"
	"github.com/sig-0/fxvol/refresh"
	"github.com/sig-0/fxvol/server"
	"github.com/sig-0/fxvol/server/config"
	"github.com/sig-0/fxvol/surface"
	"github.com/sig-0/fxvol/terminal"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath string
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the fxvol backend, refreshing configured surfaces in the background",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the service TOML configuration, if any",
	)
}

func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	// Read the service configuration, if any
	if c.configPath != "" {
		serviceCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read service config, %w", err)
		}

		c.config = serviceCfg
	}

	// Fall back to the default surface set when the config omits it
	if c.config.Surfaces == nil {
		c.config.Surfaces = config.DefaultConfig().Surfaces
	}

	if err := config.ValidateConfig(c.config); err != nil {
		return fmt.Errorf("invalid service config, %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Create the in-memory surface cache
	store := memory.NewCache()

	// Create the build metrics
	registry := prometheus.NewRegistry()
	buildMetrics := metrics.New(registry)

	// Create the surface builder on top of the terminal bridge
	client := terminal.NewClient(
		c.config.Terminal.URL,
		c.config.Terminal.Timeout(),
	)

	builder, err := surface.NewBuilder(
		client,
		surface.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("unable to create builder, %w", err)
	}

	// Set up the rebuild orchestrator
	orchestrator := refresh.New(
		store,
		refresh.WithLogger(logger),
		refresh.WithMetrics(buildMetrics),
	)

	for _, pair := range c.config.Surfaces.Pairs {
		job := refresh.NewSurfaceJob(
			builder,
			pair,
			c.config.Surfaces.TenorList(),
			c.config.Surfaces.RefreshInterval(),
		)

		if err := orchestrator.Register(job); err != nil {
			return fmt.Errorf("unable to register surface job, %w", err)
		}
	}

	s, err := server.New(
		store,
		server.WithLogger(logger),
		server.WithConfig(c.config),
		server.WithMetricsGatherer(registry),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return orchestrator.Start(gCtx)
	})

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
