package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldsim/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "test").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "debug"}, &buf)

	log.Debug().Msg("door state changed")
	assert.Contains(t, buf.String(), "door state changed")
	assert.Contains(t, buf.String(), "DBG")
}

func TestSampledLetsBurstThrough(t *testing.T) {
	var buf bytes.Buffer
	log := Sampled(New(config.LogConfig{Level: "info", Format: "json"}, &buf))

	for i := 0; i < 5; i++ {
		log.Info().Msg("contact")
	}
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("\n")))
}
