package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/entity"
	"tutorly-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	mu       sync.Mutex
	failures int
	calls    int
	stored   []*entity.SessionReport
}

func (r *fakeReportRepo) Create(_ context.Context, report *entity.SessionReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	r.stored = append(r.stored, report)
	return nil
}

func (r *fakeReportRepo) FindOne(context.Context, ...specification.Specification) (*entity.SessionReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stored) == 0 {
		return nil, nil
	}
	return r.stored[0], nil
}

func (r *fakeReportRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.SessionReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.SessionReport(nil), r.stored...), nil
}

func (r *fakeReportRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stored)), nil
}

func (r *fakeReportRepo) snapshot() (calls int, stored []*entity.SessionReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, append([]*entity.SessionReport(nil), r.stored...)
}

func startConsumer(t *testing.T, repo *fakeReportRepo) ReportPublisher {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	consumer := NewConsumerService(pubSub, "reports", repo, testLogger(t), watermill.NopLogger{}).(*consumerService)
	consumer.backoff = time.Millisecond
	require.NoError(t, consumer.Consume(ctx))

	return NewReportPublisher(pubSub, "reports")
}

func sampleReport() dto.SessionReportMessage {
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return dto.SessionReportMessage{
		RoomId:       "room-1",
		SessionId:    "session-1",
		Subject:      "math",
		Topic:        "Linear Equations",
		TutorName:    "Math Tutorly",
		StartedAt:    at,
		EndedAt:      at.Add(12 * time.Minute),
		UserMessages: 1,
		Transcript: []dto.TranscriptLineResponse{
			{Id: "m1", Sender: "user", Content: "solve 2x = 4", Timestamp: at},
		},
		NotesMarkdown: "# Math Tutorly - Comprehensive Session Report",
	}
}

func TestConsumerArchivesReport(t *testing.T) {
	repo := &fakeReportRepo{}
	pub := startConsumer(t, repo)

	require.NoError(t, pub.PublishReport(context.Background(), sampleReport()))

	require.Eventually(t, func() bool {
		_, stored := repo.snapshot()
		return len(stored) == 1
	}, time.Second, 5*time.Millisecond)

	_, stored := repo.snapshot()
	got := stored[0]
	assert.Equal(t, "session-1", got.SessionId)
	assert.Equal(t, "Linear Equations", got.Topic)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, "solve 2x = 4", got.Transcript[0].Content)
}

func TestConsumerRetriesThenGivesUp(t *testing.T) {
	repo := &fakeReportRepo{failures: 2}
	pub := startConsumer(t, repo)

	require.NoError(t, pub.PublishReport(context.Background(), sampleReport()))
	require.Eventually(t, func() bool {
		calls, stored := repo.snapshot()
		return calls == 3 && len(stored) == 1
	}, time.Second, 5*time.Millisecond)

	repo.mu.Lock()
	repo.failures = storeAttempts
	repo.mu.Unlock()

	next := sampleReport()
	next.SessionId = "session-2"
	require.NoError(t, pub.PublishReport(context.Background(), next))
	require.Eventually(t, func() bool {
		calls, _ := repo.snapshot()
		return calls == 3+storeAttempts
	}, time.Second, 5*time.Millisecond)

	_, stored := repo.snapshot()
	assert.Len(t, stored, 1)

	// the dropped report was acked, so later reports still flow
	last := sampleReport()
	last.SessionId = "session-3"
	require.NoError(t, pub.PublishReport(context.Background(), last))
	require.Eventually(t, func() bool {
		_, stored := repo.snapshot()
		return len(stored) == 2
	}, time.Second, 5*time.Millisecond)
	_, stored = repo.snapshot()
	assert.Equal(t, "session-3", stored[1].SessionId)
}

func TestConsumerSkipsUndecodableReport(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	repo := &fakeReportRepo{}
	consumer := NewConsumerService(pubSub, "reports", repo, testLogger(t), watermill.NopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish("reports", message.NewMessage(watermill.NewUUID(), []byte("{not json"))))
	require.NoError(t, NewReportPublisher(pubSub, "reports").PublishReport(ctx, sampleReport()))

	require.Eventually(t, func() bool {
		_, stored := repo.snapshot()
		return len(stored) == 1
	}, time.Second, 5*time.Millisecond)
	calls, _ := repo.snapshot()
	assert.Equal(t, 1, calls)
}
