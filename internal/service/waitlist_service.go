package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/entity"
	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/repository/contract"
	"tutorly-be/pkg/events"

	"github.com/google/uuid"
)

const waitlistModule = "WaitlistService"

var ErrWaitlistUnavailable = errors.New("waitlist store unavailable")

type IWaitlistService interface {
	Join(ctx context.Context, req *dto.JoinWaitlistRequest) (*dto.JoinWaitlistResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.WaitlistEntryResponse, int64, error)
}

type waitlistService struct {
	repo      contract.WaitlistRepository
	publisher EventPublisher
	logger    logger.ILogger
	now       func() time.Time
}

// NewWaitlistService accepts a nil publisher; signups are then stored
// without a follow-up event.
func NewWaitlistService(repo contract.WaitlistRepository, publisher EventPublisher, log logger.ILogger) IWaitlistService {
	return &waitlistService{repo: repo, publisher: publisher, logger: log, now: time.Now}
}

func (s *waitlistService) Join(ctx context.Context, req *dto.JoinWaitlistRequest) (*dto.JoinWaitlistResponse, error) {
	now := s.now()
	entry := &entity.WaitlistEntry{
		Id:                   uuid.New(),
		Name:                 strings.TrimSpace(req.Name),
		Email:                strings.TrimSpace(req.Email),
		Phone:                req.Phone,
		Role:                 req.Role,
		PrimaryUse:           req.PrimaryUse,
		WillingnessToPay:     req.WillingnessToPay,
		PreferredTutorFormat: req.PreferredTutorFormat,
		LearningStyle:        req.LearningStyle,
		BiggestFrustration:   req.BiggestFrustration,
		JoinWaitlistPerks:    req.JoinWaitlistPerks,
		SubmittedAt:          now,
		CreatedAt:            now,
	}
	if req.SubmittedAt != "" {
		if at, ok := parseSubmittedAt(req.SubmittedAt); ok {
			entry.SubmittedAt = at
		} else {
			s.logger.Warn(waitlistModule, "Unrecognised submittedAt, using server time", map[string]interface{}{
				"submitted_at": req.SubmittedAt,
			})
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(waitlistModule, "Failed to store waitlist entry", map[string]interface{}{"error": err.Error()})
		return nil, errors.Join(ErrWaitlistUnavailable, err)
	}

	s.logger.Info(waitlistModule, "Waitlist entry stored", map[string]interface{}{"entry_id": entry.Id.String()})

	if s.publisher != nil {
		evt := events.NewWaitlistJoined(entry.Id.String(), entry.Name, entry.Email, now)
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn(waitlistModule, "Failed to publish waitlist event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.JoinWaitlistResponse{Message: "Successfully joined the waitlist!"}, nil
}

// submittedAtLayouts are the timestamp shapes browsers and form tools send.
// Zone-less values are read as UTC.
var submittedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseSubmittedAt(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range submittedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *waitlistService) List(ctx context.Context, page, limit int) ([]dto.WaitlistEntryResponse, int64, error) {
	page, limit = normalizePage(page, limit)

	entries, total, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]dto.WaitlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, dto.WaitlistEntryResponse{
			Id:                   e.Id,
			Name:                 e.Name,
			Email:                e.Email,
			Phone:                e.Phone,
			Role:                 e.Role,
			PrimaryUse:           e.PrimaryUse,
			WillingnessToPay:     e.WillingnessToPay,
			PreferredTutorFormat: e.PreferredTutorFormat,
			LearningStyle:        e.LearningStyle,
			BiggestFrustration:   e.BiggestFrustration,
			JoinWaitlistPerks:    e.JoinWaitlistPerks,
			SubmittedAt:          e.SubmittedAt,
			CreatedAt:            e.CreatedAt,
		})
	}
	return res, total, nil
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
