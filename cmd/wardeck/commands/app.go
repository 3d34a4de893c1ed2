package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gudangops/wardeck/internal/api"
	"github.com/gudangops/wardeck/internal/config"
	"github.com/gudangops/wardeck/internal/session"
	"github.com/gudangops/wardeck/internal/state"
	"github.com/gudangops/wardeck/internal/store"
	"github.com/gudangops/wardeck/internal/tui"
	"go.uber.org/zap"
)

// app bundles the wired services every subcommand needs. The TUI owns
// the terminal, so the logger writes to the configured log file instead
// of stderr.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   store.Store
	tokens  *session.TokenStore
	session *session.Store
	api     *api.Client
}

func newApp(configPath string) (*app, error) {
	if configPath == "" {
		configPath = os.Getenv("WARDECK_CONFIG")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := buildLogger(cfg.Log.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	kv, err := store.Open(cfg.Storage.Path)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to open local state store: %w", err)
	}

	tokens := session.NewTokenStore(kv)
	provider := session.NewHTTPProvider(cfg.Auth.URL, tokens)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   kv,
		tokens:  tokens,
		session: session.NewStore(provider, logger),
		api:     api.NewClient(cfg.API.BaseURL, logger),
	}, nil
}

// buildLogger writes JSON logs to the given file. On a first run the
// data directory does not exist yet, so it is created here rather than
// relying on the store opening first.
func buildLogger(path string) (*zap.Logger, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{path}
	logCfg.ErrorOutputPaths = []string{path}
	return logCfg.Build()
}

// Deps wires the state machines for the dashboard TUI.
func (a *app) Deps() tui.Deps {
	chat := state.NewChat(a.store, a.logger)
	return tui.Deps{
		API:         a.api,
		Session:     a.session,
		Chat:        chat,
		Forecast:    state.NewForecast(a.store, a.logger),
		Handoff:     state.NewHandoff(a.store, a.logger),
		Maintenance: state.NewMaintenance(a.store, chat, a.logger),
		Logger:      a.logger,
	}
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close state store", zap.Error(err))
	}
	a.logger.Sync()
}
