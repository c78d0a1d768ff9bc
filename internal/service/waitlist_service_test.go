package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/entity"
	"tutorly-be/pkg/events"
	pktNats "tutorly-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWaitlistRepo struct {
	mu      sync.Mutex
	err     error
	entries []*entity.WaitlistEntry
	limit   int
	offset  int
}

func (r *fakeWaitlistRepo) Create(_ context.Context, e *entity.WaitlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeWaitlistRepo) List(_ context.Context, limit, offset int) ([]*entity.WaitlistEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit, r.offset = limit, offset
	return r.entries, int64(len(r.entries)), nil
}

func TestWaitlistJoinStoresAndPublishes(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	pub := &fakeEvents{}
	svc := NewWaitlistService(repo, pub, testLogger(t))

	res, err := svc.Join(context.Background(), &dto.JoinWaitlistRequest{
		Name:        "  Ada Lovelace ",
		Email:       "ada@example.com",
		Role:        "Student",
		SubmittedAt: "2026-02-01T08:15:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully joined the waitlist!", res.Message)

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, "Ada Lovelace", e.Name)
	assert.Equal(t, time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), e.SubmittedAt.UTC())

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.WaitlistJoined, pub.events[0].EventType())
	assert.Equal(t, "ada@example.com", events.String(pub.events[0], "email"))
	assert.Equal(t, e.Id.String(), events.String(pub.events[0], "entry_id"))
}

func TestWaitlistJoinSurvivesBusFailure(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo, &fakeEvents{err: errors.New("nats down")}, testLogger(t))

	_, err := svc.Join(context.Background(), &dto.JoinWaitlistRequest{Name: "Grace", SubmittedAt: "yesterday"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	assert.False(t, repo.entries[0].SubmittedAt.IsZero())
}

func TestParseSubmittedAt(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2026-02-01T08:15:00Z", time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), true},
		{"2026-02-01T08:15:00.123Z", time.Date(2026, 2, 1, 8, 15, 0, 123000000, time.UTC), true},
		{"2026-02-01T10:15:00+02:00", time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), true},
		{"2026-02-01T08:15:00", time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), true},
		{"2026-02-01T08:15", time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), true},
		{"2026-02-01 08:15:00", time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), true},
		{" 2026-02-01 ", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"Sun, 01 Feb 2026 08:15:00 +0000", time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseSubmittedAt(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestWaitlistJoinKeepsDateOnlySubmission(t *testing.T) {
	repo := &fakeWaitlistRepo{}
	svc := NewWaitlistService(repo, nil, testLogger(t))

	_, err := svc.Join(context.Background(), &dto.JoinWaitlistRequest{Name: "Grace", SubmittedAt: "2026-02-01"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), repo.entries[0].SubmittedAt.UTC())
}

func TestWaitlistJoinStoreFailure(t *testing.T) {
	repo := &fakeWaitlistRepo{err: errors.New("insert failed")}
	pub := &fakeEvents{}
	svc := NewWaitlistService(repo, pub, testLogger(t))

	_, err := svc.Join(context.Background(), &dto.JoinWaitlistRequest{Name: "Linus"})
	assert.ErrorIs(t, err, ErrWaitlistUnavailable)
	assert.Empty(t, pub.events)
}

func TestWaitlistListPaging(t *testing.T) {
	repo := &fakeWaitlistRepo{entries: []*entity.WaitlistEntry{{Name: "a"}, {Name: "b"}}}
	svc := NewWaitlistService(repo, nil, testLogger(t))

	items, total, err := svc.List(context.Background(), 3, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
	assert.Equal(t, maxPageLimit, repo.limit)
	assert.Equal(t, 2*maxPageLimit, repo.offset)

	_, _, err = svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultPageLimit, repo.limit)
	assert.Zero(t, repo.offset)
}

type fakeSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (s *fakeSubscriber) Subscribe(_ context.Context, subject, durable string, h pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durable, h
	return nil
}

type fakeMailer struct {
	enabled bool
	err     error
	sent    []string
	notes   []string
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendWaitlistConfirmation(toEmail, name string) error {
	m.sent = append(m.sent, toEmail+"|"+name)
	return m.err
}

func (m *fakeMailer) SendSessionNotes(toEmail, subject string, notesHTML []byte, fileName string) error {
	m.notes = append(m.notes, toEmail+"|"+fileName)
	return m.err
}

func TestWaitlistNotifierSendsConfirmation(t *testing.T) {
	sub := &fakeSubscriber{}
	mail := &fakeMailer{enabled: true}
	NewWaitlistNotifier(sub, mail, testLogger(t)).Start(context.Background())

	require.NotNil(t, sub.handler)
	assert.Equal(t, events.Subject(events.WaitlistJoined), sub.subject)
	assert.Equal(t, "waitlist-mailer", sub.durable)

	at := time.Now()
	require.NoError(t, sub.handler(context.Background(), events.NewWaitlistJoined("id-1", "Ada", "ada@example.com", at)))
	require.NoError(t, sub.handler(context.Background(), events.NewWaitlistJoined("id-2", "No Email", "", at)))
	assert.Equal(t, []string{"ada@example.com|Ada"}, mail.sent)

	mail.err = errors.New("smtp timeout")
	assert.Error(t, sub.handler(context.Background(), events.NewWaitlistJoined("id-3", "Bob", "bob@example.com", at)))
}

func TestWaitlistNotifierIdleWithoutMailer(t *testing.T) {
	sub := &fakeSubscriber{}
	NewWaitlistNotifier(sub, &fakeMailer{}, testLogger(t)).Start(context.Background())
	assert.Nil(t, sub.handler)
}
