package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	scoped := log.WithFields(map[string]interface{}{"route": "GET /activities"})
	scoped.Info("request served", map[string]interface{}{"status": 200})
	scoped.WithError(errors.New("boom")).Error("request failed", nil)
	log.With(map[string]interface{}{"sink": "redis"}).Warn("publish failed", map[string]interface{}{
		"error": errors.New("connection refused"),
	})

	entries := logs.All()
	assert.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "GET /activities", first["route"])
	assert.EqualValues(t, 200, first["status"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	third := entries[2].ContextMap()
	assert.Equal(t, "redis", third["sink"])
	assert.Equal(t, "connection refused", third["error"])
}
