package service

import (
	"context"
	"path/filepath"
	"testing"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminReports(t *testing.T) {
	id := uuid.New()
	repo := &fakeReportRepo{stored: []*entity.SessionReport{{
		Id:        id,
		SessionId: "s1",
		Subject:   "coding",
		Transcript: []entity.TranscriptLine{
			{Id: "m1", Sender: "user", Content: "what is a closure?"},
			{Id: "m2", Sender: "assistant", Content: "A function with captured state."},
		},
		NotesMarkdown: "# Code Tutorly",
	}}}
	svc := NewAdminService(NewWaitlistService(&fakeWaitlistRepo{}, nil, testLogger(t)), repo, testLogger(t))
	ctx := context.Background()

	list, total, err := svc.ListReports(ctx, 1, 10, "coding")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].SessionId)

	detail, err := svc.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Len(t, detail.Transcript, 2)
	assert.Equal(t, "# Code Tutorly", detail.NotesMarkdown)

	empty := NewAdminService(nil, &fakeReportRepo{}, testLogger(t))
	_, err = empty.GetReport(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestAdminLogs(t *testing.T) {
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "app.log"))
	log.Info("DemoService", "Demo room created", map[string]interface{}{"room_id": "r1"})
	log.Error("ReportConsumer", "Dropping session report", map[string]interface{}{"error": "db down"})
	require.NoError(t, log.Sync())

	svc := NewAdminService(nil, &fakeReportRepo{}, log)

	logs, total, err := svc.GetSystemLogs(context.Background(), 1, 10, "error", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "ReportConsumer", logs[0].Module)

	detail, err := svc.GetLogDetail(context.Background(), logs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "db down", detail.Details["error"])

	_, err = svc.GetLogDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, logger.ErrLogNotFound)
}
