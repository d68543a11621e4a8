package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	t.Run("parses the configured level", func(t *testing.T) {
		logger := NewLogger(Config{Level: "debug"})
		assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := NewLogger(Config{Level: "chatty"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		logger := NewLogger(Config{Level: "WARN"})
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})
}

func TestLogWriter(t *testing.T) {
	t.Run("console format uses the console writer", func(t *testing.T) {
		_, ok := logWriter(Config{Format: "console"}).(zerolog.ConsoleWriter)
		assert.True(t, ok)
	})

	t.Run("pretty flag uses the console writer", func(t *testing.T) {
		_, ok := logWriter(Config{Format: "json", PrettyPrint: true}).(zerolog.ConsoleWriter)
		assert.True(t, ok)
	})

	t.Run("json format writes raw", func(t *testing.T) {
		_, ok := logWriter(Config{Format: "json"}).(zerolog.ConsoleWriter)
		assert.False(t, ok)
	})
}
