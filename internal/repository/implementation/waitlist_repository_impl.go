package implementation

import (
	"context"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/mapper"
	"tutorly-be/internal/model"
	"tutorly-be/internal/repository/contract"
	"tutorly-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WaitlistMapper
}

func NewWaitlistRepository(db *gorm.DB) contract.WaitlistRepository {
	return &WaitlistRepositoryImpl{
		db:     db,
		mapper: mapper.NewWaitlistMapper(),
	}
}

func (r *WaitlistRepositoryImpl) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *WaitlistRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*entity.WaitlistEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.WaitlistEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.WaitlistEntry
	query := specification.Newest().Apply(r.db.WithContext(ctx))
	query = specification.Pagination{Limit: limit, Offset: offset}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return r.mapper.ToEntities(models), total, nil
}
