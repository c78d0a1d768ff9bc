package entity

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistEntry struct {
	Id                   uuid.UUID
	Name                 string
	Email                string
	Phone                string
	Role                 string
	PrimaryUse           string
	WillingnessToPay     string
	PreferredTutorFormat string
	LearningStyle        string
	BiggestFrustration   string
	JoinWaitlistPerks    string
	SubmittedAt          time.Time
	CreatedAt            time.Time
}
