package contract

import (
	"context"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/repository/specification"
)

type SessionReportRepository interface {
	Create(ctx context.Context, report *entity.SessionReport) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionReport, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
