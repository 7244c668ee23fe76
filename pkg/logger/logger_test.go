package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_Level(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected logrus.Level
	}{
		{name: "debug", level: "debug", expected: logrus.DebugLevel},
		{name: "warn", level: "warn", expected: logrus.WarnLevel},
		{name: "unknown falls back to info", level: "loud", expected: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewWithOutput(tt.level, &bytes.Buffer{})
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

func TestNewWithOutput_WritesJSON(t *testing.T) {
	// Подготовка
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf)

	// Действие
	log.WithField("emergency_id", "e1").Info("Emergency triggered successfully")
	log.Debug("not written")

	// Проверки
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Emergency triggered successfully", entry["msg"])
	assert.Equal(t, "e1", entry["emergency_id"])
	_, err := time.Parse(time.RFC3339Nano, entry["time"].(string))
	assert.NoError(t, err)
}
