package bot

import (
	"context"

	"go.uber.org/zap"

	"lettabot/internal/config"
)

func init() {
	RegisterChannel("console", newConsoleChannel)
}

// consoleChannel is the built-in no-network channel for local runs. It needs
// no credentials and simply holds the session open until shutdown.
type consoleChannel struct {
	logger *zap.Logger
}

func newConsoleChannel(_ config.ChannelConfig, logger *zap.Logger) (Channel, error) {
	return &consoleChannel{logger: logger}, nil
}

func (c *consoleChannel) Name() string { return "console" }

func (c *consoleChannel) Start(ctx context.Context) error {
	c.logger.Info("console channel ready")
	<-ctx.Done()
	return nil
}

func (c *consoleChannel) Stop() error { return nil }
