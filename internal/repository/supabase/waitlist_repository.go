package supabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const waitlistTable = "waitlist"

// Config holds Supabase connection configuration
type Config struct {
	URL    string
	APIKey string
}

// waitlistRow mirrors the hosted table's columns.
type waitlistRow struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	Role                 string    `json:"role"`
	PrimaryUse           string    `json:"primary_use"`
	WillingnessToPay     string    `json:"willingness_to_pay"`
	PreferredTutorFormat string    `json:"preferred_tutor_format"`
	LearningStyle        string    `json:"learning_style"`
	BiggestFrustration   string    `json:"biggest_frustration"`
	JoinWaitlistPerks    string    `json:"join_waitlist_perks"`
	SubmittedAt          time.Time `json:"submitted_at"`
	CreatedAt            time.Time `json:"created_at"`
}

type WaitlistRepository struct {
	client *supabase.Client
}

var _ contract.WaitlistRepository = (*WaitlistRepository)(nil)

func NewWaitlistRepository(cfg Config) (*WaitlistRepository, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &WaitlistRepository{client: client}, nil
}

func (r *WaitlistRepository) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var inserted []waitlistRow
	_, err := r.client.From(waitlistTable).
		Insert(toRow(entry), false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return fmt.Errorf("failed to insert waitlist entry: %w", err)
	}
	if len(inserted) > 0 {
		*entry = *fromRow(inserted[0])
	}
	return nil
}

func (r *WaitlistRepository) List(ctx context.Context, limit, offset int) ([]*entity.WaitlistEntry, int64, error) {
	var rows []waitlistRow
	count, err := r.client.From(waitlistTable).
		Select("*", "exact", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Range(offset, offset+limit-1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list waitlist entries: %w", err)
	}

	out := make([]*entity.WaitlistEntry, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, count, nil
}

func toRow(e *entity.WaitlistEntry) waitlistRow {
	return waitlistRow{
		ID:                   e.Id.String(),
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
	}
}

func fromRow(row waitlistRow) *entity.WaitlistEntry {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		id = uuid.Nil
	}
	return &entity.WaitlistEntry{
		Id:                   id,
		Name:                 row.Name,
		Email:                row.Email,
		Phone:                row.Phone,
		Role:                 row.Role,
		PrimaryUse:           row.PrimaryUse,
		WillingnessToPay:     row.WillingnessToPay,
		PreferredTutorFormat: row.PreferredTutorFormat,
		LearningStyle:        row.LearningStyle,
		BiggestFrustration:   row.BiggestFrustration,
		JoinWaitlistPerks:    row.JoinWaitlistPerks,
		SubmittedAt:          row.SubmittedAt,
		CreatedAt:            row.CreatedAt,
	}
}
