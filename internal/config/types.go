package config

import "time"

// Server operating modes.
const (
	ServerModeAPI    = "api"
	ServerModeDocker = "docker"
	ServerModeCloud  = "cloud"
)

// ServerConfig describes the agent server connection.
type ServerConfig struct {
	Mode     string `yaml:"mode"` // api, docker, cloud
	BaseURL  string `yaml:"baseUrl,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Password string `yaml:"password,omitempty"`
	Port     int    `yaml:"port,omitempty"`
}

// AgentConfig identifies the primary agent.
type AgentConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName,omitempty"`
}

// AgentEntry is one agent record in a multi-agent configuration.
type AgentEntry struct {
	Name          string                   `yaml:"name"`
	DisplayName   string                   `yaml:"displayName,omitempty"`
	Channels      map[string]ChannelConfig `yaml:"channels"`
	Conversations *ConversationsConfig     `yaml:"conversations,omitempty"`
	Features      map[string]bool          `yaml:"features,omitempty"`
	Polling       *PollingConfig           `yaml:"polling,omitempty"`
}

// ChannelConfig configures one chat channel connection.
type ChannelConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Token         string   `yaml:"token,omitempty"`
	AppToken      string   `yaml:"appToken,omitempty"`
	SigningSecret string   `yaml:"signingSecret,omitempty"`
	AllowedUsers  []string `yaml:"allowedUsers,omitempty"`
}

// ConversationsConfig bounds conversation history.
type ConversationsConfig struct {
	MaxTurns  int    `yaml:"maxTurns,omitempty"`
	Retention string `yaml:"retention,omitempty"`
}

// ProviderConfig configures an upstream model provider exposed to agents.
type ProviderConfig struct {
	ID      string `yaml:"id"`
	Type    string `yaml:"type,omitempty"`
	APIKey  string `yaml:"apiKey,omitempty"`
	BaseURL string `yaml:"baseUrl,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// PollingConfig configures the agent server poll loop.
type PollingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval,omitempty"`
}

// GetInterval parses the poll interval, falling back to 30s.
func (p *PollingConfig) GetInterval() time.Duration {
	if p == nil || p.Interval == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(p.Interval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// TranscriptionConfig configures voice-message transcription.
type TranscriptionConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty"`
}

// AttachmentsConfig configures file attachment handling.
type AttachmentsConfig struct {
	Enabled      bool     `yaml:"enabled"`
	MaxSizeMB    int      `yaml:"maxSizeMb,omitempty"`
	AllowedTypes []string `yaml:"allowedTypes,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file,omitempty"`
}

func defaultLogging() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "text"}
}
