package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/bnema/desktopkit/internal/config"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/script"
	"github.com/bnema/desktopkit/internal/wire"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// isolate gives the test its own config file and resets global state after it
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		config.SetConfigPath("")
		config.Set(nil)
		configPath = ""
	})
	return filepath.Join(dir, "desktopkit.toml")
}

func writeScenario(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

func TestConfigCommands(t *testing.T) {
	path := isolate(t)

	out, err := executeCommand(rootCmd, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = executeCommand(rootCmd, "--config", path, "config", "init", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration written")
	_, err = os.Stat(path)
	require.NoError(t, err)

	viper.Reset()
	out, err = executeCommand(rootCmd, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[transfer]")
	assert.Contains(t, out, "paste_timeout_ms")
	assert.Contains(t, out, "5000")
	assert.Contains(t, out, "[monitor]")
	assert.Contains(t, out, "monitor_ed25519")
}

func TestConfigRejectsBadLogLevel(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlog_level = \"loud\"\n"), 0600))

	_, err := executeCommand(rootCmd, "--config", path, "config", "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.log_level")
}

func TestRunCommand(t *testing.T) {
	path := isolate(t)

	t.Run("passing scenario", func(t *testing.T) {
		scenario := writeScenario(t, `
name: commit
windows:
  - {id: 1}
steps:
  - text_field: {window: 1, text: "a"}
  - commit: {window: 1, text: "b"}
  - expect_text: {window: 1, text: "ab", cursor: 2}
`)
		viper.Reset()
		out, err := executeCommand(rootCmd, "--config", path, "run", "--plain", scenario)
		require.NoError(t, err)
		assert.Contains(t, out, "commit")
		assert.Contains(t, out, `TextInput window=1 commit="b"`)
		assert.Contains(t, out, "3 steps passed")
	})

	t.Run("failing expectation", func(t *testing.T) {
		scenario := writeScenario(t, `
windows:
  - {id: 1}
steps:
  - text_field: {window: 1, text: "a"}
  - expect_text: {window: 1, text: "b"}
`)
		viper.Reset()
		_, err := executeCommand(rootCmd, "--config", path, "run", "--quiet", scenario)
		require.Error(t, err)
		assert.ErrorIs(t, err, script.ErrExpectation)
	})

	t.Run("invalid scenario", func(t *testing.T) {
		scenario := writeScenario(t, "steps:\n  - {}\n")
		viper.Reset()
		_, err := executeCommand(rootCmd, "--config", path, "run", scenario)
		require.Error(t, err)
		assert.ErrorIs(t, err, script.ErrInvalidScenario)
	})
}

func TestDecodeStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.WriteEvent(&buf, event.ApplicationStarted{}))
	require.NoError(t, wire.WriteEvent(&buf, event.WindowFocusChange{WindowID: 3, Focused: true}))

	var out bytes.Buffer
	n, err := decodeStream(bytes.NewReader(buf.Bytes()), &out, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), "    1 ApplicationStarted")
	assert.Contains(t, out.String(), "    2 WindowFocusChange window=3 focused=true")

	// an unknown tag stops decoding
	rec := protowire.AppendTag(nil, 1, protowire.VarintType)
	rec = protowire.AppendVarint(rec, 999)
	require.NoError(t, wire.WriteRecord(&buf, rec))

	out.Reset()
	n, err = decodeStream(bytes.NewReader(buf.Bytes()), &out, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, wire.ErrUnknownTag)
	assert.Equal(t, 2, n)
}

func TestScreenInfo(t *testing.T) {
	name := "DP-1"
	info := screenInfo(event.Screen{ID: 2, Name: &name, Scale: 2, Millihertz: 60000})
	assert.Equal(t, ScreenInfo{ID: 2, Name: "DP-1", Scale: 2, Millihertz: 60000}, info)
}

func TestMonitorListenFlag(t *testing.T) {
	f := monitorCmd.Flags().Lookup("listen")
	require.NotNil(t, f)
	assert.Empty(t, f.DefValue, "remote viewers are opt-in")
}
