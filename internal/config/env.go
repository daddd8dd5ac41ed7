package config

import "os"

// applyEnvOverrides applies environment variable overrides. Server settings
// are overridden unconditionally; channel tokens only fill fields the file
// left empty, so an explicit config value wins.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LETTA_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("LETTA_SERVER_TOKEN"); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv("LETTA_SERVER_PASSWORD"); v != "" {
		c.Server.Password = v
	}

	c.fillChannelToken("slack", "SLACK_BOT_TOKEN")
	c.fillChannelAppToken("slack", "SLACK_APP_TOKEN")
	c.fillChannelToken("discord", "DISCORD_BOT_TOKEN")
	c.fillChannelToken("telegram", "TELEGRAM_BOT_TOKEN")
}

func (c *Config) fillChannelToken(name, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	ch, ok := c.Channels[name]
	if !ok || ch.Token != "" {
		return
	}
	ch.Token = v
	c.Channels[name] = ch
}

func (c *Config) fillChannelAppToken(name, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	ch, ok := c.Channels[name]
	if !ok || ch.AppToken != "" {
		return
	}
	ch.AppToken = v
	c.Channels[name] = ch
}
