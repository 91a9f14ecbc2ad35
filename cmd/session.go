package cmd

import (
	"fmt"
	"log/slog"

	"github.com/mj1618/desktop-text/internal/a11y"
	"github.com/mj1618/desktop-text/internal/config"
	"github.com/mj1618/desktop-text/internal/platform"
)

// newProvider is replaced in tests.
var newProvider = platform.NewProvider

// session is a running dispatcher over the platform subsystem. Commands
// open one per invocation; the MCP server keeps one for its lifetime.
type session struct {
	dispatcher *a11y.Dispatcher
	controller *a11y.Controller
}

func openSession(cfg config.Config, log *slog.Logger) (*session, error) {
	provider, err := newProvider(platform.Options{DragDuration: cfg.DragDuration})
	if err != nil {
		return nil, err
	}
	if provider.Subsystem == nil {
		return nil, fmt.Errorf("accessibility not available on this platform")
	}
	d := a11y.New(provider.Subsystem, a11y.Options{PollInterval: cfg.PollInterval, Logger: log})
	if err := d.Start(); err != nil {
		return nil, fmt.Errorf("start accessibility thread: %w", err)
	}
	return &session{
		dispatcher: d,
		controller: a11y.NewController(d, provider.Inputter, cfg.TypeDelayMs),
	}, nil
}

func (s *session) Close() error {
	return s.dispatcher.Stop()
}

// withSession opens a session, runs fn and closes the session.
func withSession(fn func(*session) error) error {
	s, err := openSession(appConfig, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
