package memory

import (
	"time"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// RoomRepository keeps demo rooms in process. Rooms idle for longer than the
// TTL are evicted and closed by the janitor.
type RoomRepository struct {
	cache *cache.Cache
}

var _ contract.RoomRepository = (*RoomRepository)(nil)

func NewRoomRepository(ttl time.Duration) *RoomRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cleanup := ttl / 3
	if cleanup < time.Second {
		cleanup = time.Second
	}
	c := cache.New(ttl, cleanup)
	c.OnEvicted(func(_ string, v interface{}) {
		if room, ok := v.(*entity.DemoRoom); ok {
			room.Close()
		}
	})
	return &RoomRepository{cache: c}
}

func (r *RoomRepository) Save(room *entity.DemoRoom) {
	r.cache.Set(room.Id, room, cache.DefaultExpiration)
}

func (r *RoomRepository) Get(id string) (*entity.DemoRoom, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.DemoRoom), true
	}
	return nil, false
}

// Touch pushes the room's expiry out by a full TTL. A room deleted or expired
// since the lookup is not resurrected.
func (r *RoomRepository) Touch(id string) bool {
	room, ok := r.Get(id)
	if !ok {
		return false
	}
	return r.cache.Replace(id, room, cache.DefaultExpiration) == nil
}

func (r *RoomRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *RoomRepository) Count() int {
	return r.cache.ItemCount()
}

// Flush closes and drops every room. go-cache does not run OnEvicted on Flush.
func (r *RoomRepository) Flush() {
	items := r.cache.Items()
	r.cache.Flush()
	for _, item := range items {
		if room, ok := item.Object.(*entity.DemoRoom); ok {
			room.Close()
		}
	}
}
