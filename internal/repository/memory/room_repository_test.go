package memory

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"tutorly-be/internal/entity"
	"tutorly-be/pkg/schedule"
	"tutorly-be/pkg/session"
	"tutorly-be/pkg/sketch"
	"tutorly-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoom(t *testing.T, id string) *entity.DemoRoom {
	t.Helper()
	sched := schedule.NewManual()
	rng := rand.New(rand.NewPCG(1, 2))
	adapter := voice.NewAdapter(voice.Config{Scheduler: sched}, nil)
	ctrl, err := session.New(session.Options{
		RoomID:    id,
		Subject:   "math",
		Adapter:   adapter,
		Scheduler: sched,
		Rand:      rng,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx)
	return entity.NewDemoRoom(id, ctrl, sketch.NewSurface(rng), sketch.NewKeypad(time.Now), time.Now(), cancel)
}

func closed(room *entity.DemoRoom) bool {
	_, err := room.Session.Snapshot(context.Background())
	return err != nil
}

func TestRoomRepositoryDeleteClosesRoom(t *testing.T) {
	repo := NewRoomRepository(time.Minute)
	room := newRoom(t, "r1")
	repo.Save(room)

	got, ok := repo.Get("r1")
	require.True(t, ok)
	assert.Same(t, room, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("r1")
	_, ok = repo.Get("r1")
	assert.False(t, ok)
	assert.True(t, closed(room))
}

func TestRoomRepositoryExpiry(t *testing.T) {
	repo := NewRoomRepository(50 * time.Millisecond)
	room := newRoom(t, "r2")
	repo.Save(room)

	assert.Eventually(t, func() bool { return closed(room) }, 3*time.Second, 20*time.Millisecond)
	_, ok := repo.Get("r2")
	assert.False(t, ok)
}

func TestRoomRepositoryTouchAndFlush(t *testing.T) {
	repo := NewRoomRepository(time.Minute)
	assert.False(t, repo.Touch("missing"))

	a, b := newRoom(t, "a"), newRoom(t, "b")
	repo.Save(a)
	repo.Save(b)
	assert.True(t, repo.Touch("a"))

	repo.Flush()
	assert.Zero(t, repo.Count())
	assert.True(t, closed(a))
	assert.True(t, closed(b))
}

func TestRoomRepositoryTouchDoesNotResurrect(t *testing.T) {
	repo := NewRoomRepository(50 * time.Millisecond)
	room := newRoom(t, "r3")
	repo.Save(room)

	// expired but not yet collected by the janitor
	time.Sleep(100 * time.Millisecond)
	assert.False(t, repo.Touch("r3"))
	assert.Eventually(t, func() bool { return closed(room) }, 3*time.Second, 20*time.Millisecond)
	_, ok := repo.Get("r3")
	assert.False(t, ok)

	other := newRoom(t, "r4")
	repo.Save(other)
	repo.Delete("r4")
	assert.False(t, repo.Touch("r4"))
	assert.Zero(t, repo.Count())
}
