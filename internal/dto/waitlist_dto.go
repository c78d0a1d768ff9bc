package dto

import (
	"time"

	"github.com/google/uuid"
)

// JoinWaitlistRequest keeps the camelCase keys the signup form posts.
type JoinWaitlistRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"omitempty,email,max=255"`
	Phone                string `json:"phone" validate:"max=64"`
	Role                 string `json:"role" validate:"max=128"`
	PrimaryUse           string `json:"primaryUse" validate:"max=255"`
	WillingnessToPay     string `json:"willingnessToPay" validate:"max=128"`
	PreferredTutorFormat string `json:"preferredTutorFormat" validate:"max=128"`
	LearningStyle        string `json:"learningStyle" validate:"max=128"`
	BiggestFrustration   string `json:"biggestFrustration" validate:"max=2000"`
	JoinWaitlistPerks    string `json:"joinWaitlistPerks" validate:"max=255"`
	SubmittedAt          string `json:"submittedAt" validate:"omitempty,max=64"`
}

type JoinWaitlistResponse struct {
	Message string `json:"message"`
}

type WaitlistEntryResponse struct {
	Id                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	Role                 string    `json:"role"`
	PrimaryUse           string    `json:"primaryUse"`
	WillingnessToPay     string    `json:"willingnessToPay"`
	PreferredTutorFormat string    `json:"preferredTutorFormat"`
	LearningStyle        string    `json:"learningStyle"`
	BiggestFrustration   string    `json:"biggestFrustration"`
	JoinWaitlistPerks    string    `json:"joinWaitlistPerks"`
	SubmittedAt          time.Time `json:"submittedAt"`
	CreatedAt            time.Time `json:"createdAt"`
}
