// Command sandbox opens a window on a playground level.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/opd-ai/go-gravidog/pkg/config"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	engorender "github.com/opd-ai/go-gravidog/pkg/render/engo"
	"github.com/opd-ai/go-gravidog/pkg/sandbox"
	"github.com/opd-ai/go-gravidog/pkg/world"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "", "Path to configuration file (.json, .yaml or .yml)")
	levelPath := flag.String("level", "", "Level file; the built-in demo when empty")
	flag.Parse()

	worldConfig := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if worldConfig, err = config.LoadConfig(*configPath); err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}
	if err := config.ApplyEnvironmentOverrides(worldConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	level := sandbox.Demo()
	if *levelPath != "" {
		var err error
		if level, err = sandbox.LoadLevel(*levelPath); err != nil {
			logger.Error(ctx, "Failed to load level", err,
				"level_path", *levelPath,
			)
			os.Exit(1)
		}
	}

	w, err := world.New(worldConfig, logger, nil)
	if err != nil {
		logger.Error(ctx, "Failed to create world", err)
		os.Exit(1)
	}
	scene, err := sandbox.Build(level, w, logger)
	if err != nil {
		logger.Error(ctx, "Failed to build level", err,
			"level", level.Name,
		)
		os.Exit(1)
	}

	logger.Info(ctx, "Opening sandbox",
		"level", level.Name,
		"bodies", w.Len(),
	)
	engorender.Run(engorender.NewSandboxScene(w, scene.Player, logger))
}
