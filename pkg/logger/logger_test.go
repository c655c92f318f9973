package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("cualquiera"), "nivel desconocido debe caer en info")
}

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf, App: "acarreo-api"})

	cl := l.Component("closing")
	cl.Info().Str("route_id", "r-1").Msg("ruta cerrada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "acarreo-api", entry["app"])
	assert.Equal(t, "closing", entry["component"])
	assert.Equal(t, "r-1", entry["route_id"])
	assert.Equal(t, "ruta cerrada", entry["message"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})
	l.Info().Msg("no debe aparecer")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("sí aparece")
	assert.Contains(t, buf.String(), "sí aparece")
}
