package model

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistEntry struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string    `gorm:"type:varchar(255);not null"`
	Email                string    `gorm:"type:varchar(255);index"`
	Phone                string    `gorm:"type:varchar(64)"`
	Role                 string    `gorm:"type:varchar(128)"`
	PrimaryUse           string    `gorm:"type:varchar(255)"`
	WillingnessToPay     string    `gorm:"type:varchar(128)"`
	PreferredTutorFormat string    `gorm:"type:varchar(128)"`
	LearningStyle        string    `gorm:"type:varchar(128)"`
	BiggestFrustration   string    `gorm:"type:text"`
	JoinWaitlistPerks    string    `gorm:"type:varchar(255)"`
	SubmittedAt          time.Time `gorm:"not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime;index"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}
