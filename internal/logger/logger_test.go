package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		log, err := New(NewDefaultFileLogConfig())
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	})

	t.Run("explicit level", func(t *testing.T) {
		cfg := NewDefaultFileLogConfig()
		cfg.LogLevel = "debug"
		log, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := NewDefaultFileLogConfig()
		cfg.LogLevel = "loud"
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("file output", func(t *testing.T) {
		cfg := NewDefaultFileLogConfig()
		cfg.LogFile = filepath.Join(t.TempDir(), "logs", "pagewatch.log")
		log, err := New(cfg)
		require.NoError(t, err)

		log.Info().Msg("hello")
	})
}
