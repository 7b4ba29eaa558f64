package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatterFormat(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
	}

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)

	assert.Contains(t, string(out), "[2026-01-02 03:04:05]")
	assert.Contains(t, string(out), "[INFO]")
	assert.Contains(t, string(out), "hello")
}

func TestInitLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, InitLogger("debug", path))

	Log.Info("boot check")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boot check")
}

func TestInitLoggerBadLevelFallsBack(t *testing.T) {
	require.NoError(t, InitLogger("nope", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
