package supabase

import (
	"testing"
	"time"

	"tutorly-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWaitlistRepositoryRequiresCredentials(t *testing.T) {
	_, err := NewWaitlistRepository(Config{APIKey: "k"})
	require.Error(t, err)

	_, err = NewWaitlistRepository(Config{URL: "https://example.supabase.co"})
	require.Error(t, err)
}

func TestRowConversionKeepsFields(t *testing.T) {
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	in := &entity.WaitlistEntry{
		Id:                 uuid.New(),
		Name:               "Ada",
		Email:              "ada@example.com",
		LearningStyle:      "Visual",
		BiggestFrustration: "Too expensive",
		SubmittedAt:        at,
		CreatedAt:          at,
	}

	out := fromRow(toRow(in))
	assert.Equal(t, in, out)
}

func TestFromRowWithBadID(t *testing.T) {
	out := fromRow(waitlistRow{ID: "not-a-uuid", Name: "Ada"})
	assert.Equal(t, uuid.Nil, out.Id)
	assert.Equal(t, "Ada", out.Name)
}
