package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, InfoLevel, c.GetLogLevel())
	require.NotEmpty(t, c.DataDirPath)
	require.True(t, c.MetricsConfig.Enabled)
}

func TestNewConfigFromFileCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	c, err := NewConfigFromFile(dir)
	require.Nil(t, err)
	require.Equal(t, dir, c.DataDirPath)

	reloaded, err := NewConfigFromFile(dir)
	require.Nil(t, err)
	require.Equal(t, c, reloaded)
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  int32
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"garbage", DebugLevel},
	}
	for _, test := range tests {
		m := MainConfig{LogLevel: test.level}
		require.Equal(t, test.want, m.GetLogLevel())
	}
}
