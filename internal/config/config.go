// Package config holds the lettabot configuration schema and loader.
//
// Configuration is a single YAML file (lettabot.yaml). The loader also
// accepts fleet configuration files authored for a fleet orchestrator: when a
// document is detected as fleet-format, the agents that carry a lettabot
// section are adapted into the native schema (see fleet.go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all lettabot configuration.
type Config struct {
	// Agent server connection
	Server ServerConfig `yaml:"server"`

	// Primary agent descriptor (single-agent deployments)
	Agent AgentConfig `yaml:"agent"`

	// Per-agent records (multi-agent deployments); empty otherwise
	Agents []AgentEntry `yaml:"agents,omitempty"`

	// Chat channel connections, keyed by channel name (slack, discord, ...)
	Channels map[string]ChannelConfig `yaml:"channels"`

	// Optional behavior sections
	Conversations *ConversationsConfig `yaml:"conversations,omitempty"`
	Features      map[string]bool      `yaml:"features,omitempty"`
	Providers     []ProviderConfig     `yaml:"providers,omitempty"`
	Polling       *PollingConfig       `yaml:"polling,omitempty"`
	Transcription *TranscriptionConfig `yaml:"transcription,omitempty"`
	Attachments   *AttachmentsConfig   `yaml:"attachments,omitempty"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// FromFleet records whether this configuration was adapted from a
	// fleet document rather than parsed natively. Not serialized.
	FromFleet bool `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Mode:    ServerModeAPI,
			BaseURL: "http://localhost:8283",
		},
		Channels: map[string]ChannelConfig{},
		Logging:  defaultLogging(),
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw configuration bytes. The document is first parsed
// generically so the fleet detector can inspect it; fleet documents go
// through the adapter, everything else decodes natively over the defaults.
func Parse(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	SetLoadedFromFleet(false)

	if IsFleetConfig(doc) {
		cfg, err := FromFleetConfig(doc)
		if err != nil {
			return nil, err
		}
		cfg.FromFleet = true
		SetLoadedFromFleet(true)
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Channels == nil {
		cfg.Channels = map[string]ChannelConfig{}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// AgentEntries returns the configured agents in a uniform shape. Multi-agent
// configs return their entries as-is; single-agent configs synthesize one
// entry from the top-level sections.
func (c *Config) AgentEntries() []AgentEntry {
	if len(c.Agents) > 0 {
		return c.Agents
	}
	channels := c.Channels
	if channels == nil {
		channels = map[string]ChannelConfig{}
	}
	return []AgentEntry{{
		Name:          c.Agent.Name,
		DisplayName:   c.Agent.DisplayName,
		Channels:      channels,
		Conversations: c.Conversations,
		Features:      c.Features,
		Polling:       c.Polling,
	}}
}
