package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal"
	"github.com/vtmroll/vtmroll/pkg/bot"
	"github.com/vtmroll/vtmroll/pkg/bus"
	"github.com/vtmroll/vtmroll/pkg/channels"
	"github.com/vtmroll/vtmroll/pkg/command"
	"github.com/vtmroll/vtmroll/pkg/config"
	"github.com/vtmroll/vtmroll/pkg/dice"
	"github.com/vtmroll/vtmroll/pkg/gateway"
	"github.com/vtmroll/vtmroll/pkg/logger"
	"github.com/vtmroll/vtmroll/pkg/metrics"
	"github.com/vtmroll/vtmroll/pkg/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func NewGatewayCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:     "gateway",
		Aliases: []string{"g"},
		Short:   "Run the dice bot on the configured chat channels",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return gatewayCmd(ctx, debug)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func gatewayCmd(ctx context.Context, debug bool) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log, debug); err != nil {
		return err
	}
	defer logger.DisableFileLogging()

	if err := cfg.ValidateGateway(); err != nil {
		return err
	}

	runner, err := newRunner(cfg, bus.NewMessageBus(), nil)
	if err != nil {
		return err
	}
	return runner.run(ctx)
}

func setupLogging(cfg config.LogConfig, debug bool) error {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if debug {
		level = logger.DEBUG
		fmt.Println("Debug mode enabled")
	}
	logger.SetLevel(level)

	if cfg.File != "" {
		if err := logger.EnableFileLogging(cfg.File); err != nil {
			return fmt.Errorf("enable file logging: %w", err)
		}
	}
	return nil
}

// runner wires the bus, channels, roll loop and HTTP gateway together.
type runner struct {
	cfg      *config.Config
	bus      *bus.MessageBus
	manager  *channels.Manager
	loop     *bot.Loop
	server   *gateway.Server
	registry *prometheus.Registry
}

// newRunner builds every component around msgBus. A nil manager is created
// from cfg.
func newRunner(cfg *config.Config, msgBus *bus.MessageBus, manager *channels.Manager) (*runner, error) {
	source, err := dice.NewRandSource()
	if err != nil {
		return nil, err
	}
	parser, err := command.NewParser(cfg.Bot.Prefix, cfg.Limits())
	if err != nil {
		return nil, err
	}

	if manager == nil {
		manager, err = channels.NewManagerFromConfig(cfg, msgBus)
		if err != nil {
			return nil, fmt.Errorf("error creating channel manager: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)
	recorder.Init(manager.GetEnabledChannels())

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Enabled:           cfg.RateLimits.Enabled,
		RequestsPerMinute: cfg.RateLimits.RequestsPerMinute,
		Burst:             cfg.RateLimits.Burst,
	})

	r := &runner{
		cfg:      cfg,
		bus:      msgBus,
		manager:  manager,
		loop:     bot.NewLoop(msgBus, bot.NewHandler(parser, source), limiter, recorder),
		registry: registry,
	}
	if cfg.Gateway.Enabled {
		r.server = gateway.NewServer(cfg.Gateway, manager.GetStatus, registry, internal.FormatVersion())
	}
	return r, nil
}

// run blocks until ctx is cancelled, then shuts everything down.
func (r *runner) run(ctx context.Context) error {
	logger.InfoCF("gateway", "Starting vtmroll", map[string]any{
		"prefix":   r.cfg.Bot.Prefix,
		"channels": r.manager.GetEnabledChannels(),
	})

	if err := r.manager.StartAll(ctx); err != nil {
		return fmt.Errorf("error starting channels: %w", err)
	}

	if r.server != nil {
		if err := r.server.Start(); err != nil {
			_ = r.manager.StopAll(context.Background())
			return err
		}
		logger.InfoCF("gateway", "Health endpoint ready", map[string]any{
			"url": "http://" + r.server.Addr() + "/healthz",
		})
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = r.loop.Run(ctx)
	}()

	<-ctx.Done()
	logger.InfoC("gateway", "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.loop.Stop()
	<-loopDone

	var firstErr error
	if r.server != nil {
		if err := r.server.Stop(shutdownCtx); err != nil {
			firstErr = err
		}
	}
	if err := r.manager.StopAll(shutdownCtx); err != nil && firstErr == nil {
		firstErr = err
	}
	r.bus.Close()

	logger.InfoC("gateway", "Gateway stopped")
	return firstErr
}
