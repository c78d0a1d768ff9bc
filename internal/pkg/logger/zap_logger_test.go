package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.log")
	l := NewIsolatedLogger(path)

	l.Info("HUB", "client registered", map[string]interface{}{"room_id": "r1"})
	l.Warn("HUB", "buffer full", nil)
	l.Info("SESSION", "call started", nil)
	l.Debug("HUB", "below file level", nil)
	require.NoError(t, l.Sync())

	all, total, err := l.GetLogs(LogQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "call started", all[0].Message, "newest first")
	assert.Equal(t, "r1", all[2].Details["room_id"])

	warns, total, err := l.GetLogs(LogQuery{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "buffer full", warns[0].Message)

	hub, total, err := l.GetLogs(LogQuery{Module: "hub", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, hub, 1)
	assert.Equal(t, "buffer full", hub[0].Message)

	got, err := l.GetLogById(all[1].Id)
	require.NoError(t, err)
	assert.Equal(t, all[1].Message, got.Message)

	_, err = l.GetLogById("missing")
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestGetLogsMissingFile(t *testing.T) {
	l := &ZapLogger{filePath: filepath.Join(t.TempDir(), "none.log")}
	logs, total, err := l.GetLogs(LogQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Zero(t, total)
}

func TestGetLogsOffsetPastEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewIsolatedLogger(path)
	l.Info("APP", "one", nil)
	require.NoError(t, l.Sync())

	logs, total, err := l.GetLogs(LogQuery{Offset: 5, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Equal(t, 1, total)
}
