package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddWriter ensures duplicate writers are ignored and both formats receive the plain message.
func TestAddWriter(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)

	var structured, unstructured bytes.Buffer
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&unstructured, UNSTRUCTURED)
	assert.Len(t, logger.writers, 2)

	logger.Info("sold ", colors.Green, 40, " tokens")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.EqualValues(t, "sold 40 tokens", entry["message"])
	assert.EqualValues(t, "info", entry["level"])

	assert.Contains(t, unstructured.String(), "sold 40 tokens")
	assert.NotContains(t, unstructured.String(), "\x1b[")
}

// TestSubLoggerContext ensures sub-logger keys appear in structured output, including for writers added later.
func TestSubLoggerContext(t *testing.T) {
	logger := NewLogger(zerolog.DebugLevel, false)
	subLogger := logger.NewSubLogger("module", "campaign")

	var buf bytes.Buffer
	subLogger.AddWriter(&buf, STRUCTURED)
	subLogger.Debug("sequence started", StructuredLogInfo{"length": 5}, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.EqualValues(t, "campaign", entry["module"])
	assert.EqualValues(t, "boom", entry["error"])
	assert.NotNil(t, entry["info"])
	assert.NotNil(t, entry["stack"], "debug level logs should include stack traces")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.True(t, strings.Contains(buf.String(), "shown"))

	logger.SetLevel(zerolog.InfoLevel)
	logger.Info("now shown")
	assert.True(t, strings.Contains(buf.String(), "now shown"))
	assert.EqualValues(t, zerolog.InfoLevel, logger.Level())
}

func TestPanicLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)
	assert.Panics(t, func() {
		logger.Panic("fatal setup failure")
	})
	assert.Contains(t, buf.String(), "fatal setup failure")
}

func TestLevelFromDebug(t *testing.T) {
	assert.EqualValues(t, zerolog.DebugLevel, LevelFromDebug(true))
	assert.EqualValues(t, zerolog.InfoLevel, LevelFromDebug(false))
}
