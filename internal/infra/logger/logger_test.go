package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{input: "debug", expected: zerolog.DebugLevel},
		{input: "DEBUG", expected: zerolog.DebugLevel},
		{input: "", expected: zerolog.InfoLevel},
		{input: "info", expected: zerolog.InfoLevel},
		{input: "warning", expected: zerolog.WarnLevel},
		{input: "error", expected: zerolog.ErrorLevel},
		{input: "verbose", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.log")

	require.NoError(t, Init(Config{Output: path, File: path, Level: "info"}))
	zlog.Info().Msg("hello from test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello from test"`)
}

func TestInit_FileError(t *testing.T) {
	dir := t.TempDir()
	err := Init(Config{Output: dir, File: dir})
	assert.Error(t, err)
}

func TestInit_Discard(t *testing.T) {
	require.NoError(t, Init(Config{Output: "discard"}))
	assert.Equal(t, zerolog.Disabled, zlog.Logger.GetLevel())
}
