package implementation

import (
	"context"
	"errors"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/mapper"
	"tutorly-be/internal/model"
	"tutorly-be/internal/repository/contract"
	"tutorly-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionReportMapper
}

func NewSessionReportRepository(db *gorm.DB) contract.SessionReportRepository {
	return &SessionReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionReportMapper(),
	}
}

func (r *SessionReportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create ignores a second report for the same session so redelivered
// messages stay idempotent.
func (r *SessionReportRepositoryImpl) Create(ctx context.Context, report *entity.SessionReport) error {
	if report.Id == uuid.Nil {
		report.Id = uuid.New()
	}
	m, err := r.mapper.ToModel(report)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(m).Error
	if err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionReport, error) {
	var m model.SessionReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionReport, error) {
	var models []*model.SessionReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SessionReportRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SessionReport{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
