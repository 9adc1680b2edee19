package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		from       slog.Level
		log        func(l *slog.Logger)
		wantSource bool
	}{
		{
			name:       "info below threshold has no source",
			from:       slog.LevelWarn,
			log:        func(l *slog.Logger) { l.Info("hello") },
			wantSource: false,
		},
		{
			name:       "warn at threshold has source",
			from:       slog.LevelWarn,
			log:        func(l *slog.Logger) { l.Warn("careful") },
			wantSource: true,
		},
		{
			name:       "error above threshold has source",
			from:       slog.LevelWarn,
			log:        func(l *slog.Logger) { l.Error("broken") },
			wantSource: true,
		},
		{
			name:       "debug threshold covers info",
			from:       slog.LevelDebug,
			log:        func(l *slog.Logger) { l.Info("hello") },
			wantSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewSourceHandler(base, tt.from))

			tt.log(l)

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestSourceHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := slog.New(NewSourceHandler(base, slog.LevelError)).With("component", "test")

	l.Warn("not yet")
	assert.NotContains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "component=test")

	buf.Reset()
	l.Error("now")
	assert.Contains(t, buf.String(), "source=")
}
