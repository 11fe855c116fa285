// Package app provides the application context and dependency management
// for the fleetmap CLI. It centralizes configuration, logging, and the
// fleetmap instance behind a single App type.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/fleetmap"
)

// App represents the fleetmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Fleetmap instance (lazy-initialized, singleton)
	mu sync.Mutex
	fm fleetmap.Fleetmap
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Fleetmap returns the fleetmap instance, creating it lazily from the
// current configuration.
func (a *App) Fleetmap() (fleetmap.Fleetmap, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fm != nil {
		return a.fm, nil
	}

	opts := []fleetmap.Option{
		fleetmap.WithEndpoint(a.config.Endpoint),
		fleetmap.WithHTTPTimeout(a.config.Timeout),
		fleetmap.WithLogger(a.logger),
	}
	if a.config.DeclaredFieldsOnly {
		opts = append(opts, fleetmap.WithDeclaredFieldsOnly())
	}

	fm, err := fleetmap.New(opts...)
	if err != nil {
		return nil, err
	}

	a.fm = fm
	return fm, nil
}
