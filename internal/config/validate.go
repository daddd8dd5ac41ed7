package config

import "fmt"

// Validate checks that the configuration can drive a bot. Fleet-adapted and
// natively parsed configs go through the same checks.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ServerModeAPI, ServerModeDocker, ServerModeCloud:
	default:
		return fmt.Errorf("invalid server mode %q (want %s, %s or %s)",
			c.Server.Mode, ServerModeAPI, ServerModeDocker, ServerModeCloud)
	}

	if len(c.Agents) > 0 {
		seen := make(map[string]bool, len(c.Agents))
		for i, a := range c.Agents {
			if a.Name == "" {
				return fmt.Errorf("agents[%d]: name is required", i)
			}
			if seen[a.Name] {
				return fmt.Errorf("duplicate agent name %q", a.Name)
			}
			seen[a.Name] = true
			if err := validateChannels(a.Channels, "agent "+a.Name); err != nil {
				return err
			}
		}
	} else if c.Agent.Name == "" {
		return fmt.Errorf("agent name is required")
	}

	return validateChannels(c.Channels, "")
}

func validateChannels(channels map[string]ChannelConfig, scope string) error {
	for name, ch := range channels {
		// The built-in console channel needs no credentials.
		if ch.Enabled && ch.Token == "" && name != "console" {
			if scope != "" {
				return fmt.Errorf("%s: channel %q is enabled but has no token", scope, name)
			}
			return fmt.Errorf("channel %q is enabled but has no token", name)
		}
	}
	return nil
}

// Redacted returns a copy of the configuration with secrets masked, suitable
// for printing.
func (c *Config) Redacted() *Config {
	out := *c

	out.Server.Token = mask(c.Server.Token)
	out.Server.Password = mask(c.Server.Password)

	out.Channels = redactChannels(c.Channels)

	if len(c.Agents) > 0 {
		out.Agents = make([]AgentEntry, len(c.Agents))
		copy(out.Agents, c.Agents)
		for i := range out.Agents {
			out.Agents[i].Channels = redactChannels(c.Agents[i].Channels)
		}
	}

	if len(c.Providers) > 0 {
		out.Providers = make([]ProviderConfig, len(c.Providers))
		copy(out.Providers, c.Providers)
		for i := range out.Providers {
			out.Providers[i].APIKey = mask(out.Providers[i].APIKey)
		}
	}

	if c.Transcription != nil {
		t := *c.Transcription
		t.APIKey = mask(t.APIKey)
		out.Transcription = &t
	}

	return &out
}

func redactChannels(channels map[string]ChannelConfig) map[string]ChannelConfig {
	out := make(map[string]ChannelConfig, len(channels))
	for name, ch := range channels {
		ch.Token = mask(ch.Token)
		ch.AppToken = mask(ch.AppToken)
		ch.SigningSecret = mask(ch.SigningSecret)
		out[name] = ch
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}
