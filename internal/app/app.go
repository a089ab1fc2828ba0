package app

import (
	"io"
	"log/slog"

	"github.com/vk/cargopx/internal/metadata"
	"github.com/vk/cargopx/internal/runner"
	"github.com/vk/cargopx/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	config   *Config
	logger   *slog.Logger
	shell    *shell.Shell
	provider metadata.Provider
	runner   runner.Runner
}

// Option customises an App, mostly to swap collaborators in tests.
type Option func(*App)

// WithProvider replaces the `cargo metadata` provider.
func WithProvider(p metadata.Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithRunner replaces the process runner used for generators and verifiers.
func WithRunner(r runner.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithShell replaces the shell status lines are printed to.
func WithShell(sh *shell.Shell) Option {
	return func(a *App) { a.shell = sh }
}

// NewApp is the constructor for the main application. Diagnostic logs go to
// logW when a log level is configured and are discarded otherwise.
func NewApp(logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{config: cfg}
	logger, err := NewLogger(cfg.logLevel(), cfg.Settings.LogFormat, logW)
	if err != nil {
		// Both level sources are validated before an App is built.
		panic(err)
	}
	a.logger = logger
	for _, opt := range opts {
		opt(a)
	}

	if a.shell == nil {
		a.shell = shell.Stderr()
	}
	if cfg.Quiet {
		a.shell.SetVerbosity(shell.Quiet)
	}
	if a.provider == nil {
		a.provider = &metadata.CargoProvider{CargoPath: cfg.CargoPath, Dir: cfg.WorkingDir}
	}
	if a.runner == nil {
		a.runner = runner.NewExec()
	}
	a.logger.Debug("App configured.", "cargo", cfg.CargoPath, "working_dir", cfg.WorkingDir, "settings", cfg.Settings.Path)
	return a
}
