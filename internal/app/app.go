package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/circuitgraph/internal/config"
	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/vk/circuitgraph/internal/gate"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *AppConfig
	model  *config.Model
	cache  *gate.Cache
}

// NewApp is the constructor for the main application. Logs go to logW and
// JSON lines, unless redirected to a file, go to outW.
func NewApp(outW, logW io.Writer, appConfig *AppConfig, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Load all configuration into the format-agnostic model first.
	cfgModel, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.", "architectures", len(cfgModel.Architectures))

	cache, err := gate.NewCache(appConfig.cacheSize())
	if err != nil {
		return nil, err
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  cfgModel,
		cache:  cache,
	}, nil
}

// Model returns the loaded configuration. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
