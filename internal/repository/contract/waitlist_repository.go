package contract

import (
	"context"

	"tutorly-be/internal/entity"
)

// WaitlistRepository is implemented by both the postgres and the supabase
// backends, so it takes plain paging arguments rather than specifications.
type WaitlistRepository interface {
	Create(ctx context.Context, entry *entity.WaitlistEntry) error
	List(ctx context.Context, limit, offset int) ([]*entity.WaitlistEntry, int64, error)
}
