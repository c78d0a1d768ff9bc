package service

import (
	"context"
	"errors"
	"fmt"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/entity"
	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/repository/contract"
	"tutorly-be/internal/repository/specification"

	"github.com/google/uuid"
)

var ErrReportNotFound = errors.New("session report not found")

type IAdminService interface {
	// Waitlist
	ListWaitlist(ctx context.Context, page, limit int) ([]dto.WaitlistEntryResponse, int64, error)

	// Session archive
	ListReports(ctx context.Context, page, limit int, subject string) ([]*dto.SessionReportResponse, int64, error)
	GetReport(ctx context.Context, id uuid.UUID) (*dto.SessionReportDetailResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, int64, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	waitlist IWaitlistService
	reports  contract.SessionReportRepository
	logger   logger.ILogger
}

func NewAdminService(
	waitlist IWaitlistService,
	reports contract.SessionReportRepository,
	logger logger.ILogger,
) IAdminService {
	return &adminService{
		waitlist: waitlist,
		reports:  reports,
		logger:   logger,
	}
}

// ============================================================================
// Waitlist
// ============================================================================

func (s *adminService) ListWaitlist(ctx context.Context, page, limit int) ([]dto.WaitlistEntryResponse, int64, error) {
	return s.waitlist.List(ctx, page, limit)
}

// ============================================================================
// Session archive
// ============================================================================

func (s *adminService) ListReports(ctx context.Context, page, limit int, subject string) ([]*dto.SessionReportResponse, int64, error) {
	page, limit = normalizePage(page, limit)
	filter := specification.BySubject{Subject: subject}

	total, err := s.reports.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	reports, err := s.reports.FindAll(ctx, filter, specification.Newest(), specification.Page(page, limit))
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.SessionReportResponse, 0, len(reports))
	for _, r := range reports {
		summary := reportSummary(r)
		res = append(res, &summary)
	}
	return res, total, nil
}

func (s *adminService) GetReport(ctx context.Context, id uuid.UUID) (*dto.SessionReportDetailResponse, error) {
	r, err := s.reports.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}

	lines := make([]dto.TranscriptLineResponse, len(r.Transcript))
	for i, l := range r.Transcript {
		lines[i] = dto.TranscriptLineResponse{
			Id:        l.Id,
			Sender:    l.Sender,
			Content:   l.Content,
			Image:     l.Image,
			Timestamp: l.Timestamp,
		}
	}

	return &dto.SessionReportDetailResponse{
		SessionReportResponse: reportSummary(r),
		Transcript:            lines,
		NotesMarkdown:         r.NotesMarkdown,
	}, nil
}

func reportSummary(r *entity.SessionReport) dto.SessionReportResponse {
	return dto.SessionReportResponse{
		Id:                r.Id,
		RoomId:            r.RoomId,
		SessionId:         r.SessionId,
		Subject:           r.Subject,
		Topic:             r.Topic,
		TutorName:         r.TutorName,
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
		DurationMinutes:   r.DurationMinutes,
		UserMessages:      r.UserMessages,
		AssistantMessages: r.AssistantMessages,
		CreatedAt:         r.CreatedAt,
	}
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, int64, error) {
	page, limit = normalizePage(page, limit)

	logs, total, err := s.logger.GetLogs(logger.LogQuery{
		Level:  level,
		Module: module,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		})
	}
	return res, int64(total), nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	l, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}
	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		},
		Details: l.Details,
	}, nil
}
