package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/pkg/logger"
)

func TestLogger_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "debug", Service: "tienda-api"}, &buf)

	comp := l.Component("dispatcher")
	comp.Info().Int("items", 3).Msg("lote enviado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tienda-api", entry["service"])
	assert.Equal(t, "dispatcher", entry["component"])
	assert.EqualValues(t, 3, entry["items"])
	assert.Equal(t, "lote enviado", entry["message"])
}

func TestLogger_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Level: "warn"}, &buf)

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí sale")
	assert.Contains(t, buf.String(), "sí sale")
}

func TestLogger_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Level: "verboso"}, &buf)

	l.Debug().Msg("oculto")
	l.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}
