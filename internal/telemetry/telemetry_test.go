package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cookbook/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := newHandler(&buf, config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	l := slog.New(h)
	l.Info("hidden")
	l.Warn("shown", "budget", 700000)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"budget":700000`)

	_, err = newHandler(&buf, config.LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = newHandler(&buf, config.LogConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestSetupWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	shutdown, err := Setup(context.Background(), config.LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupExportsToCollector(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", collector.URL)
	prevLogger, prevTracer := slog.Default(), otel.GetTracerProvider()
	t.Cleanup(func() {
		slog.SetDefault(prevLogger)
		otel.SetTracerProvider(prevTracer)
	})

	shutdown, err := Setup(context.Background(), config.LogConfig{})
	require.NoError(t, err)
	_, ok := slog.Default().Handler().(*slog.MultiHandler)
	assert.True(t, ok, "console and otlp handlers are joined")
	slog.Info("planned week", "budget", 700000)
	assert.NoError(t, shutdown(context.Background()))
}
