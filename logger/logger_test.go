package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestZapWrapper_FieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := newZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"requestId": "abc"}).
		WithError(errors.New("boom")).
		Warn("prediction cache write failed", map[string]interface{}{"key": "k1"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "prediction cache write failed", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["requestId"])
	assert.Equal(t, "k1", ctx["key"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNew_FileOutputIsRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log := NewStructured(Options{Level: "info", Format: "json", Output: path, MaxSizeMB: 1})
	log.Info("artifacts loaded", map[string]interface{}{"model": "red_neuronal"})
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"artifacts loaded"`)
	assert.Contains(t, string(data), `"model":"red_neuronal"`)
}

func TestNewNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.Debug("ignored", nil)
		log.WithFields(nil).Error("ignored", map[string]interface{}{"a": 1})
	})
}
