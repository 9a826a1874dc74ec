package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsake/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"WARN", logrus.WarnLevel, false},
		{"silent", logrus.PanicLevel, false},
		{"off", logrus.PanicLevel, false},
		{"loud", logrus.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keepsake.log")

	logger, closeLog, err := New(config.LogConfig{File: path, Level: "info"})
	require.NoError(t, err)

	logger.WithField("capsule_id", "abc").Info("capsule created")
	logger.Debug("hidden at info level")
	require.NoError(t, closeLog())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "capsule created")
	assert.Contains(t, string(b), "capsule_id=abc")
	assert.NotContains(t, string(b), "hidden at info level")
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keepsake.log")

	logger, closeLog, err := New(config.LogConfig{File: path, Level: "chatty"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	require.NoError(t, closeLog())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "level=warning")
	assert.Contains(t, string(b), `invalid log level \"chatty\"`)
}
