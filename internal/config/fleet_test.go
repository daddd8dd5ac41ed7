package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fleetEntry(name string, extra map[string]any) map[string]any {
	entry := map[string]any{
		"name":       name,
		"llm_config": map[string]any{"model": "gpt-4", "temperature": 0.2},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

func TestIsFleetConfig(t *testing.T) {
	t.Run("non-object documents", func(t *testing.T) {
		assert.False(t, IsFleetConfig(nil))
		assert.False(t, IsFleetConfig("agents"))
		assert.False(t, IsFleetConfig(42))
		assert.False(t, IsFleetConfig([]any{map[string]any{"llm_config": nil}}))
	})

	t.Run("objects without a usable agents list", func(t *testing.T) {
		assert.False(t, IsFleetConfig(map[string]any{}))
		assert.False(t, IsFleetConfig(map[string]any{"agents": nil}))
		assert.False(t, IsFleetConfig(map[string]any{"agents": "yes"}))
		assert.False(t, IsFleetConfig(map[string]any{"agents": []any{}}))
	})

	t.Run("agents without marker fields are not fleet", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			map[string]any{"name": "a", "channels": map[string]any{}},
		}}
		assert.False(t, IsFleetConfig(doc))
	})

	t.Run("native multi-agent config is not fleet", func(t *testing.T) {
		// Shaped like lettabot's own multi-agent output.
		doc := map[string]any{
			"server": map[string]any{"mode": "api"},
			"agents": []any{
				map[string]any{"name": "a", "channels": map[string]any{"slack": map[string]any{"enabled": true}}},
				map[string]any{"name": "b", "channels": map[string]any{}},
			},
			"channels": map[string]any{},
		}
		assert.False(t, IsFleetConfig(doc))
	})

	t.Run("llm_config marks fleet", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			map[string]any{"name": "a", "llm_config": map[string]any{}},
		}}
		assert.True(t, IsFleetConfig(doc))
	})

	t.Run("system_prompt marks fleet", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			map[string]any{"name": "a", "system_prompt": "be helpful"},
		}}
		assert.True(t, IsFleetConfig(doc))
	})

	t.Run("marker on any entry is enough", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			map[string]any{"name": "plain"},
			"not an object",
			map[string]any{"name": "fleet", "system_prompt": nil},
		}}
		assert.True(t, IsFleetConfig(doc))
	})
}

func TestFromFleetConfig_SingleAgent(t *testing.T) {
	doc := map[string]any{"agents": []any{
		fleetEntry("A", map[string]any{
			"lettabot": map[string]any{
				"channels": map[string]any{
					"x": map[string]any{"enabled": true, "token": "t"},
				},
			},
		}),
	}}

	cfg, err := FromFleetConfig(doc)
	require.NoError(t, err)

	assert.Equal(t, ServerModeAPI, cfg.Server.Mode)
	assert.Equal(t, "A", cfg.Agent.Name)
	assert.Empty(t, cfg.Agents)
	assert.Equal(t, map[string]ChannelConfig{
		"x": {Enabled: true, Token: "t"},
	}, cfg.Channels)
}

func TestFromFleetConfig_NoForeignLeakage(t *testing.T) {
	doc := map[string]any{"agents": []any{
		fleetEntry("A", map[string]any{
			"system_prompt": "do fleet things",
			"description":   "fleet agent",
			"tools":         []any{"search"},
			"memory_blocks": []any{},
			"lettabot": map[string]any{
				"displayName": "Agent A",
				// Foreign keys nested inside the lettabot section are
				// allow-listed away too.
				"llm_config": map[string]any{"model": "gpt-4"},
				"channels":   map[string]any{"slack": map[string]any{"enabled": true, "token": "tok"}},
			},
		}),
	}}

	cfg, err := FromFleetConfig(doc)
	require.NoError(t, err)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	for _, key := range []string{"llm_config", "system_prompt", "description", "tools", "memory_blocks"} {
		assert.NotContains(t, string(out), key)
	}
	assert.Equal(t, "Agent A", cfg.Agent.DisplayName)
}

func TestFromFleetConfig_ServerMode(t *testing.T) {
	t.Run("defaults to api when unset", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			fleetEntry("A", map[string]any{
				"lettabot": map[string]any{
					"server": map[string]any{"baseUrl": "http://letta:8283"},
				},
			}),
		}}
		cfg, err := FromFleetConfig(doc)
		require.NoError(t, err)
		assert.Equal(t, ServerModeAPI, cfg.Server.Mode)
		assert.Equal(t, "http://letta:8283", cfg.Server.BaseURL)
	})

	t.Run("explicit mode wins over the default", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			fleetEntry("A", map[string]any{
				"lettabot": map[string]any{
					"server": map[string]any{"mode": "docker", "token": "srv"},
				},
			}),
		}}
		cfg, err := FromFleetConfig(doc)
		require.NoError(t, err)
		assert.Equal(t, ServerModeDocker, cfg.Server.Mode)
		assert.Equal(t, "srv", cfg.Server.Token)
	})

	t.Run("no server block at all", func(t *testing.T) {
		doc := map[string]any{"agents": []any{
			fleetEntry("A", map[string]any{"lettabot": map[string]any{}}),
		}}
		cfg, err := FromFleetConfig(doc)
		require.NoError(t, err)
		assert.Equal(t, ServerConfig{Mode: ServerModeAPI}, cfg.Server)
	})
}

func TestFromFleetConfig_MultiAgent(t *testing.T) {
	doc := map[string]any{"agents": []any{
		fleetEntry("A", map[string]any{
			"lettabot": map[string]any{
				"displayName": "First",
				"server":      map[string]any{"mode": "cloud"},
				"providers":   []any{map[string]any{"id": "p1"}},
				"transcription": map[string]any{
					"enabled": true, "provider": "whisper",
				},
				"channels": map[string]any{
					"slack": map[string]any{"enabled": true, "token": "t1"},
				},
			},
		}),
		map[string]any{"name": "fleet-only", "llm_config": map[string]any{}},
		fleetEntry("B", map[string]any{
			"lettabot": map[string]any{
				"displayName": "Second",
				// Later agents defining system-wide sections lose: the
				// first qualifying agent wins.
				"server":    map[string]any{"mode": "docker"},
				"providers": []any{map[string]any{"id": "p2"}},
				"features":  map[string]any{"streaming": true},
			},
		}),
	}}

	cfg, err := FromFleetConfig(doc)
	require.NoError(t, err)

	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, "A", cfg.Agents[0].Name)
	assert.Equal(t, "B", cfg.Agents[1].Name)
	assert.Equal(t, "A", cfg.Agent.Name)

	// Promotion from the first qualifying agent only.
	assert.Equal(t, ServerModeCloud, cfg.Server.Mode)
	if diff := cmp.Diff([]ProviderConfig{{ID: "p1"}}, cfg.Providers); diff != "" {
		t.Errorf("providers mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, cfg.Transcription)
	assert.Equal(t, "whisper", cfg.Transcription.Provider)

	// Channels live per agent; top level stays an empty mapping.
	require.NotNil(t, cfg.Channels)
	assert.Empty(t, cfg.Channels)
	assert.Equal(t, "t1", cfg.Agents[0].Channels["slack"].Token)

	// An agent without channels still gets an empty mapping, not nil.
	require.NotNil(t, cfg.Agents[1].Channels)
	assert.Empty(t, cfg.Agents[1].Channels)
	assert.Equal(t, map[string]bool{"streaming": true}, cfg.Agents[1].Features)
}

func TestFromFleetConfig_NoQualifyingAgents(t *testing.T) {
	doc := map[string]any{"agents": []any{
		fleetEntry("A", nil),
		fleetEntry("B", map[string]any{"lettabot": nil}),
		fleetEntry("C", map[string]any{"lettabot": "not an object"}),
	}}

	_, err := FromFleetConfig(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoFleetAgents)
	assert.ErrorContains(t, err, "lettabot")
}

func TestFromFleetConfig_SingleQualifyingAmongMany(t *testing.T) {
	doc := map[string]any{"agents": []any{
		fleetEntry("fleet-1", nil),
		fleetEntry("B", map[string]any{"lettabot": map[string]any{}}),
		fleetEntry("fleet-2", nil),
	}}

	cfg, err := FromFleetConfig(doc)
	require.NoError(t, err)
	assert.Equal(t, "B", cfg.Agent.Name)
	assert.Empty(t, cfg.Agents)
}

func TestParse_FleetProvenance(t *testing.T) {
	fleetYAML := []byte(`
agents:
  - name: helper
    llm_config:
      model: gpt-4
    system_prompt: you are a fleet agent
    lettabot:
      displayName: Helper
      channels:
        slack:
          enabled: true
          token: tok
`)
	cfg, err := Parse(fleetYAML)
	require.NoError(t, err)
	assert.True(t, cfg.FromFleet)
	assert.True(t, LoadedFromFleet())
	assert.Equal(t, "helper", cfg.Agent.Name)
	assert.Equal(t, "Helper", cfg.Agent.DisplayName)

	nativeYAML := []byte(`
agent:
  name: solo
channels: {}
`)
	cfg, err = Parse(nativeYAML)
	require.NoError(t, err)
	assert.False(t, cfg.FromFleet)
	assert.False(t, LoadedFromFleet())
}

func TestParse_NativeMultiAgentStaysNative(t *testing.T) {
	data := []byte(`
server:
  mode: api
agents:
  - name: a
    channels:
      slack:
        enabled: true
        token: tok
  - name: b
    channels: {}
channels: {}
`)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.False(t, cfg.FromFleet)
	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, "a", cfg.Agents[0].Name)
}
