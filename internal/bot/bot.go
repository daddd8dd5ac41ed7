// Package bot bootstraps the lettabot runtime: it instantiates one session
// per configured agent, starts the configured channels and runs the agent
// server poll loop until shutdown.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lettabot/internal/config"
)

// Session binds one configured agent to the runtime.
type Session struct {
	ID          string
	AgentName   string
	DisplayName string
	Channels    map[string]config.ChannelConfig
}

// Bot is the lettabot runtime.
type Bot struct {
	mu       sync.RWMutex
	cfg      *config.Config
	logger   *zap.Logger
	sessions []Session
}

// New builds a bot from a validated configuration.
func New(cfg *config.Config, logger *zap.Logger) *Bot {
	b := &Bot{cfg: cfg, logger: logger}
	for _, agent := range cfg.AgentEntries() {
		b.sessions = append(b.sessions, Session{
			ID:          uuid.NewString(),
			AgentName:   agent.Name,
			DisplayName: agent.DisplayName,
			Channels:    agent.Channels,
		})
	}
	return b
}

// Sessions returns the agent sessions, in configuration order.
func (b *Bot) Sessions() []Session {
	return b.sessions
}

// SetConfig swaps in a reloaded configuration. Sessions are not rebuilt;
// only settings read per poll tick (interval, polling toggle) pick it up.
func (b *Bot) SetConfig(cfg *config.Config) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
}

func (b *Bot) config() *config.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg
}

// Run starts the configured channels and the poll loop, then blocks until
// ctx is cancelled or a channel fails.
func (b *Bot) Run(ctx context.Context) error {
	cfg := b.config()

	for _, s := range b.sessions {
		b.logger.Info("agent session ready",
			zap.String("session", s.ID),
			zap.String("agent", s.AgentName),
			zap.Int("channels", len(s.Channels)))
	}

	channels, err := b.buildChannels(cfg)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, ch := range channels {
		ch := ch
		g.Go(func() error {
			defer ch.Stop()
			b.logger.Info("starting channel", zap.String("channel", ch.Name()))
			return ch.Start(ctx)
		})
	}
	g.Go(func() error {
		return b.pollLoop(ctx)
	})

	return g.Wait()
}

// buildChannels instantiates every enabled channel that has a registered
// integration. Enabled channels without one are skipped with a warning so a
// config written for a fuller build still runs.
func (b *Bot) buildChannels(cfg *config.Config) ([]Channel, error) {
	var channels []Channel
	for name, section := range channelSections(cfg) {
		if !section.Enabled {
			continue
		}
		factory, ok := channelFactory(name)
		if !ok {
			b.logger.Warn("no integration registered for channel, skipping",
				zap.String("channel", name))
			continue
		}
		ch, err := factory(section, b.logger.Named(name))
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// channelSections merges top-level and per-agent channel sections by name.
// The first definition of a name wins; channel connections are shared
// process-wide even when configured on an agent entry.
func channelSections(cfg *config.Config) map[string]config.ChannelConfig {
	sections := make(map[string]config.ChannelConfig, len(cfg.Channels))
	for name, section := range cfg.Channels {
		sections[name] = section
	}
	for _, agent := range cfg.Agents {
		for name, section := range agent.Channels {
			if _, exists := sections[name]; !exists {
				sections[name] = section
			}
		}
	}
	return sections
}

// pollLoop ticks at the configured interval while polling is enabled. The
// interval is re-read every tick so a config reload takes effect live.
func (b *Bot) pollLoop(ctx context.Context) error {
	ticker := time.NewTicker(b.config().Polling.GetInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cfg := b.config()
			if cfg.Polling == nil || !cfg.Polling.Enabled {
				continue
			}
			b.logger.Debug("polling agent server",
				zap.String("baseUrl", cfg.Server.BaseURL),
				zap.Int("sessions", len(b.sessions)))
			ticker.Reset(cfg.Polling.GetInterval())
		}
	}
}
