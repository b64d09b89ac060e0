// Package app wires process-wide state: the root logger and the
// startup clock the entrypoint reports against.
package app

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"voice-tutor-service/internal/config"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs the Application and installs its logger as the
// process-wide zerolog default, so component loggers derived from
// log.Logger carry the service fields.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg:    cfg,
		Logger: newLogger(cfg),
	}
	log.Logger = a.Logger

	a.Logger.Info().
		Str("logLevel", zerolog.GlobalLevel().String()).
		Str("environment", cfg.Service.Environment).
		Msg("Application created")
	return a
}

// newLogger builds the root logger from configuration. A dev
// environment gets the console writer; everything else logs JSON to
// stdout for collection.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Observability.LogLevel)); err == nil {
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out zerolog.Logger
	if cfg.Service.Environment == "dev" {
		out = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		out = zerolog.New(os.Stdout)
	}
	return out.With().
		Timestamp().
		Str("service", cfg.Service.Name).
		Logger()
}

// Start records the startup time before serving traffic.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Str("httpPort", a.Cfg.Service.HTTPPort).
		Msg("Service starting")
	return nil
}

// Uptime reports how long the process has served traffic.
func (a *Application) Uptime() time.Duration {
	if a.StartupTime.IsZero() {
		return 0
	}
	return time.Since(a.StartupTime)
}

// Shutdown logs final process stats before exit.
func (a *Application) Shutdown() {
	a.Logger.Info().
		Dur("uptime", a.Uptime()).
		Msg("Service stopped")
}
