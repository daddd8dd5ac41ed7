package bot

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"lettabot/internal/config"
)

// Channel is a chat surface the bot attaches agents to. Start blocks until
// the channel disconnects or ctx is cancelled.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// ChannelFactory builds a channel from its configuration section.
type ChannelFactory func(cfg config.ChannelConfig, logger *zap.Logger) (Channel, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]ChannelFactory)
)

// RegisterChannel makes a channel implementation available under a config
// key. Channel integrations call this from their init functions.
func RegisterChannel(name string, factory ChannelFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("bot: channel %q registered twice", name))
	}
	factories[name] = factory
}

func channelFactory(name string) (ChannelFactory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}
