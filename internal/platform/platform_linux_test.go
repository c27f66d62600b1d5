//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMillis(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "1500\n", want: 1500 * time.Millisecond},
		{input: "0", want: 0},
		{input: "-20", want: 0},
		{input: "idle", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseMillis(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestAutostart_DesktopEntry(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	autostart := NewAutostart("WorkWell")
	entryPath := filepath.Join(configDir, "autostart", "workwell.desktop")

	require.NoError(t, autostart.Apply(true))
	content, err := os.ReadFile(entryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=WorkWell")
	assert.Contains(t, string(content), "Exec=")

	require.NoError(t, autostart.Apply(false))
	_, err = os.Stat(entryPath)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, autostart.Apply(false))
}

func TestAutostart_EmptyName(t *testing.T) {
	assert.Error(t, NewAutostart(" ").Apply(true))
}
