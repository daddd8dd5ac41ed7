package config

import (
	"errors"
	"fmt"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// FleetSettingsKey is the per-agent section of a fleet document that opts an
// agent into lettabot.
const FleetSettingsKey = "lettabot"

// ErrNoFleetAgents is returned when a fleet document contains no agent with a
// lettabot section.
var ErrNoFleetAgents = errors.New(`fleet config contains no agents with a "lettabot" section`)

var loadedFromFleet atomic.Bool

// LoadedFromFleet reports whether the most recent configuration load went
// through the fleet adapter. The load path is single-writer; this exists for
// diagnostics that have no access to the loaded Config (prefer
// Config.FromFleet otherwise).
func LoadedFromFleet() bool { return loadedFromFleet.Load() }

// SetLoadedFromFleet records the provenance of the most recent load.
func SetLoadedFromFleet(v bool) { loadedFromFleet.Store(v) }

// IsFleetConfig reports whether a parsed configuration document was authored
// for a fleet orchestrator rather than for lettabot. Fleet agents carry
// fields lettabot never writes (llm_config, system_prompt); lettabot's own
// multi-agent configs also have an agents sequence, so key presence alone is
// not enough.
func IsFleetConfig(doc any) bool {
	root, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	agents, ok := root["agents"].([]any)
	if !ok || len(agents) == 0 {
		return false
	}
	for _, raw := range agents {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if _, found := entry["llm_config"]; found {
			return true
		}
		if _, found := entry["system_prompt"]; found {
			return true
		}
	}
	return false
}

// fleetAgentSettings is the allow-list of lettabot settings recognized inside
// a fleet agent's lettabot section. Anything else in the section, including
// fleet-only fields, is dropped on decode.
type fleetAgentSettings struct {
	Server        *ServerConfig            `yaml:"server"`
	DisplayName   string                   `yaml:"displayName"`
	Conversations *ConversationsConfig     `yaml:"conversations"`
	Channels      map[string]ChannelConfig `yaml:"channels"`
	Features      map[string]bool          `yaml:"features"`
	Providers     []ProviderConfig         `yaml:"providers"`
	Polling       *PollingConfig           `yaml:"polling"`
	Transcription *TranscriptionConfig     `yaml:"transcription"`
	Attachments   *AttachmentsConfig       `yaml:"attachments"`
}

type fleetAgent struct {
	name     string
	settings fleetAgentSettings
}

// FromFleetConfig adapts a fleet document into a native configuration. The
// caller must have established IsFleetConfig(doc) first. Agents without a
// lettabot section belong to other tools and are skipped; one qualifying
// agent yields a single-agent config, several yield a multi-agent config.
func FromFleetConfig(doc any) (*Config, error) {
	root, _ := doc.(map[string]any)
	rawAgents, _ := root["agents"].([]any)

	var qualifying []fleetAgent
	for _, raw := range rawAgents {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		section, ok := entry[FleetSettingsKey].(map[string]any)
		if !ok {
			continue
		}
		var agent fleetAgent
		agent.name, _ = entry["name"].(string)
		if err := redecode(section, &agent.settings); err != nil {
			return nil, fmt.Errorf("fleet agent %q: invalid %s section: %w", agent.name, FleetSettingsKey, err)
		}
		qualifying = append(qualifying, agent)
	}

	if len(qualifying) == 0 {
		return nil, ErrNoFleetAgents
	}
	if len(qualifying) == 1 {
		return singleAgentConfig(qualifying[0]), nil
	}
	return multiAgentConfig(qualifying), nil
}

func singleAgentConfig(agent fleetAgent) *Config {
	s := agent.settings
	cfg := &Config{
		Server: buildServer(s.Server),
		Agent: AgentConfig{
			Name:        agent.name,
			DisplayName: s.DisplayName,
		},
		Channels:      s.Channels,
		Conversations: s.Conversations,
		Features:      s.Features,
		Providers:     s.Providers,
		Polling:       s.Polling,
		Transcription: s.Transcription,
		Attachments:   s.Attachments,
		Logging:       defaultLogging(),
	}
	if cfg.Channels == nil {
		cfg.Channels = map[string]ChannelConfig{}
	}
	return cfg
}

func multiAgentConfig(agents []fleetAgent) *Config {
	entries := make([]AgentEntry, 0, len(agents))
	for _, a := range agents {
		entry := AgentEntry{
			Name:          a.name,
			DisplayName:   a.settings.DisplayName,
			Channels:      a.settings.Channels,
			Conversations: a.settings.Conversations,
			Features:      a.settings.Features,
			Polling:       a.settings.Polling,
		}
		if entry.Channels == nil {
			entry.Channels = map[string]ChannelConfig{}
		}
		entries = append(entries, entry)
	}

	// Server, providers, transcription and attachments are system-wide:
	// they are promoted from the first qualifying agent. Channels live per
	// agent in this variant, so the top-level map stays empty.
	first := agents[0].settings
	return &Config{
		Server:        buildServer(first.Server),
		Agent:         AgentConfig{Name: agents[0].name},
		Agents:        entries,
		Channels:      map[string]ChannelConfig{},
		Providers:     first.Providers,
		Transcription: first.Transcription,
		Attachments:   first.Attachments,
		Logging:       defaultLogging(),
	}
}

// buildServer constructs the server block with the serving mode defaulted
// first and the extracted block overlaid on top, so an explicit mode wins.
func buildServer(s *ServerConfig) ServerConfig {
	server := ServerConfig{Mode: ServerModeAPI}
	if s == nil {
		return server
	}
	if s.Mode != "" {
		server.Mode = s.Mode
	}
	server.BaseURL = s.BaseURL
	server.Token = s.Token
	server.Password = s.Password
	server.Port = s.Port
	return server
}

// redecode round-trips a generic subtree through the YAML marshaller into a
// typed destination, dropping unknown keys.
func redecode(src, dst any) error {
	data, err := yaml.Marshal(src)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dst)
}
