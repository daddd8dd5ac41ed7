package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, path, agentName string) {
	t.Helper()
	data := "agent:\n  name: " + agentName + "\nchannels: {}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lettabot.yaml")
	writeConfig(t, path, "before")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, zap.NewNop(), func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	writeConfig(t, path, "after")

	select {
	case cfg := <-reloaded:
		require.Equal(t, "after", cfg.Agent.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcher_KeepsPreviousConfigOnInvalidChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lettabot.yaml")
	writeConfig(t, path, "before")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, zap.NewNop(), func(cfg *Config) {
		reloaded <- cfg
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Invalid: enabled channel without a token. Must not reach onChange.
	bad := "agent:\n  name: broken\nchannels:\n  slack:\n    enabled: true\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0644))

	// A later valid write must still come through.
	time.Sleep(300 * time.Millisecond)
	writeConfig(t, path, "recovered")

	select {
	case cfg := <-reloaded:
		require.Equal(t, "recovered", cfg.Agent.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lettabot.yaml")
	writeConfig(t, path, "a")

	w, err := NewWatcher(path, zap.NewNop(), nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
