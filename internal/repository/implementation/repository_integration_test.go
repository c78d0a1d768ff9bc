package implementation_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/model"
	"tutorly-be/internal/repository/implementation"
	"tutorly-be/internal/repository/specification"
	"tutorly-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	// Load .env from root
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, db.AutoMigrate(&model.WaitlistEntry{}, &model.SessionReport{}))
	return db
}

func TestSessionReportRepository(t *testing.T) {
	db := openDB(t)
	repo := implementation.NewSessionReportRepository(db)
	ctx := context.Background()

	sessionID := uuid.NewString()
	t.Cleanup(func() {
		db.Where("session_id = ?", sessionID).Delete(&model.SessionReport{})
	})

	report := &entity.SessionReport{
		RoomId:          "room-it",
		SessionId:       sessionID,
		Subject:         "physics",
		Topic:           "Newton's Laws",
		TutorName:       "Professor Newton",
		StartedAt:       time.Now().Add(-10 * time.Minute),
		EndedAt:         time.Now(),
		DurationMinutes: 10,
		UserMessages:    1,
		Transcript:      []entity.TranscriptLine{{Id: "m1", Sender: "user", Content: "why do apples fall?"}},
		NotesMarkdown:   "# Physics Tutorly",
	}
	require.NoError(t, repo.Create(ctx, report))
	assert.NotEqual(t, uuid.Nil, report.Id)

	// Redelivery of the same session is a no-op.
	require.NoError(t, repo.Create(ctx, &entity.SessionReport{
		RoomId: "room-it", SessionId: sessionID, Subject: "physics",
		StartedAt: time.Now(), EndedAt: time.Now(),
	}))

	count, err := repo.Count(ctx, specification.Filter("session_id", sessionID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	found, err := repo.FindOne(ctx, specification.Filter("session_id", sessionID))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Newton's Laws", found.Topic)
	require.Len(t, found.Transcript, 1)
	assert.Equal(t, "why do apples fall?", found.Transcript[0].Content)

	list, err := repo.FindAll(ctx, specification.BySubject{Subject: "Physics"}, specification.Newest(), specification.Page(1, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	missing, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWaitlistRepository(t *testing.T) {
	db := openDB(t)
	repo := implementation.NewWaitlistRepository(db)
	ctx := context.Background()

	email := "it-" + uuid.NewString() + "@example.com"
	t.Cleanup(func() {
		db.Where("email = ?", email).Delete(&model.WaitlistEntry{})
	})

	entry := &entity.WaitlistEntry{Name: "Integration", Email: email, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotEqual(t, uuid.Nil, entry.Id)

	items, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(1))
	assert.NotEmpty(t, items)
}
