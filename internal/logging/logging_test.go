package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/packetbatch/internal/logging"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "warn", Format: logging.FormatJSON}, &buf)

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestNewLogger_InvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "loud", Format: logging.FormatJSON}, &buf)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "debug", Format: logging.FormatConsole}, &buf)

	logger.Debug().Str("component", "engine").Msg("batch emitted")
	out := buf.String()
	assert.Contains(t, out, "batch emitted")
	assert.NotContains(t, out, `"message"`)
}

func TestNewLogger_AutoFormatOnBufferIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "info", Format: logging.FormatAuto}, &buf)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	lvl, err = logging.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = logging.ParseLevel("chatty")
	assert.Error(t, err)
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "console", "json", "auto"} {
		assert.True(t, logging.ValidFormat(f), f)
	}
	assert.False(t, logging.ValidFormat("xml"))
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packetbatch.log")
	var stderr bytes.Buffer

	result := logging.NewLoggerWithPath(logging.Config{
		Level:  "info",
		Output: logging.OutputFile,
		File:   path,
	}, &stderr)
	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
	assert.Empty(t, stderr.String())
}

func TestNewLoggerWithPath_Fallback(t *testing.T) {
	var stderr bytes.Buffer
	result := logging.NewLoggerWithPath(logging.Config{
		Level:  "info",
		Format: logging.FormatJSON,
		Output: logging.OutputFile,
		File:   filepath.Join(t.TempDir(), "missing", "dir", "x.log"),
	}, &stderr)

	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)

	logging.PrintFallbackWarning(&stderr, result.FallbackReason)
	assert.Contains(t, stderr.String(), "Warning: could not open log file")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.ComponentLogger(
		logging.NewLogger(logging.Config{Level: "info", Format: logging.FormatJSON}, &buf), "engine")
	ctx := logger.WithContext(context.Background())

	logging.FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), `"component":"engine"`)

	// No logger in context yields a disabled logger rather than nil.
	assert.NotNil(t, logging.FromContext(context.Background()))
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logging.TraceIDFromContext(ctx))

	id := logging.GetOrGenerateTraceID(ctx)
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	ctx = logging.ContextWithTraceID(ctx, id)
	assert.Equal(t, id, logging.TraceIDFromContext(ctx))
	assert.Equal(t, id, logging.GetOrGenerateTraceID(ctx))
}
