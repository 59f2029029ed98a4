// Command simulate steps one or more copies of a level without a window
// and reports what happened.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-gravidog/pkg/config"
	"github.com/opd-ai/go-gravidog/pkg/health"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/render"
	"github.com/opd-ai/go-gravidog/pkg/sandbox"
)

// HealthAddrEnvVar supplies the health listener address when -health is empty.
const HealthAddrEnvVar = "GRAVIDOG_HEALTH_ADDR"

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithCorrelationID(context.Background(), "")

	configPath := flag.String("config", "config.json", "Path to configuration file (.json, .yaml or .yml)")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	levelPath := flag.String("level", "", "Level file; the built-in demo when empty")
	duration := flag.Duration("duration", 10*time.Second, "Simulated time per run")
	runs := flag.Int("runs", 1, "Number of independent runs")
	realtime := flag.Bool("realtime", false, "Pace steps with the wall clock")
	healthAddr := flag.String("health", "", "Address for /healthz and /readyz, e.g. :8080")
	ascii := flag.Bool("ascii", false, "Print the final frame of the first run")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	worldConfig, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	level := sandbox.Demo()
	if *levelPath != "" {
		if level, err = sandbox.LoadLevel(*levelPath); err != nil {
			logger.Error(ctx, "Failed to load level", err,
				"level_path", *levelPath,
			)
			os.Exit(1)
		}
	}
	if *runs < 1 {
		*runs = 1
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewMemoryHealthCheck(500, health.HeapMB))

	if *healthAddr == "" {
		*healthAddr = os.Getenv(HealthAddrEnvVar)
	}
	if *healthAddr != "" {
		server := &http.Server{
			Addr:         *healthAddr,
			Handler:      checker.Routes(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info(ctx, "Starting health check server", "address", *healthAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "Health check server failed", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	opts := runOptions{
		config:   worldConfig,
		level:    level,
		duration: *duration,
		realtime: *realtime,
	}
	results := make([]*runResult, *runs)

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		g.Go(func() error {
			res, err := simulate(gctx, i, opts, logger, checker)
			results[i] = res
			return err
		})
	}
	err = g.Wait()

	if *ascii && results[0] != nil {
		r := render.NewTerminalRenderer(os.Stdout, 82, 62, 1)
		render.Frame(r, results[0].World.Bodies())
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}

	var steps uint64
	collisions := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		steps += res.Steps
		collisions += res.Collisions
	}
	logger.Info(ctx, "Simulation complete",
		"runs", *runs,
		"steps", steps,
		"collisions", collisions,
		"health", checker.CheckHealth(context.Background()).Status,
	)
}

func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.WorldConfig, error) {
	var worldConfig *config.WorldConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		worldConfig = config.DefaultConfig()
	} else {
		worldConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(worldConfig); err != nil {
		return nil, logging.WrapError(err, "failed to apply environment configuration")
	}
	return worldConfig, nil
}
