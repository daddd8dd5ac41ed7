package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lettabot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lettabot configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigValidate(cmd)
	},
}

func runConfigValidate(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.FromFleet {
		cmd.Println("configuration adapted from fleet format")
	}
	agents := cfg.AgentEntries()
	enabled := 0
	for _, a := range agents {
		for _, ch := range a.Channels {
			if ch.Enabled {
				enabled++
			}
		}
	}
	cmd.Printf("configuration is valid: %d agent(s), %d enabled channel(s)\n", len(agents), enabled)
	return nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (secrets redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

func runConfigInit(cmd *cobra.Command) error {
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", cfgPath)
	}

	cfg := config.DefaultConfig()
	cfg.Agent = config.AgentConfig{Name: "lettabot", DisplayName: "Lettabot"}
	cfg.Channels["console"] = config.ChannelConfig{Enabled: true}
	cfg.Channels["slack"] = config.ChannelConfig{Enabled: false}

	if err := cfg.Save(cfgPath); err != nil {
		return err
	}
	cmd.Printf("wrote %s\n", cfgPath)
	return nil
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
