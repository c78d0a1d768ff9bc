package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionReport archives one finished demo session.
type SessionReport struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomId            string         `gorm:"type:varchar(64);not null;index"`
	SessionId         string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Subject           string         `gorm:"type:varchar(64);not null;index"`
	Topic             string         `gorm:"type:varchar(255)"`
	TutorName         string         `gorm:"type:varchar(128)"`
	StartedAt         time.Time      `gorm:"not null"`
	EndedAt           time.Time      `gorm:"not null"`
	DurationMinutes   int            `gorm:"not null;default:0"`
	UserMessages      int            `gorm:"not null;default:0"`
	AssistantMessages int            `gorm:"not null;default:0"`
	Transcript        datatypes.JSON `gorm:"type:jsonb"`
	NotesMarkdown     string         `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index"`
}

func (SessionReport) TableName() string {
	return "session_reports"
}
