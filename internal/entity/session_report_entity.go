package entity

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptLine struct {
	Id        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Image     bool      `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionReport struct {
	Id                uuid.UUID
	RoomId            string
	SessionId         string
	Subject           string
	Topic             string
	TutorName         string
	StartedAt         time.Time
	EndedAt           time.Time
	DurationMinutes   int
	UserMessages      int
	AssistantMessages int
	Transcript        []TranscriptLine
	NotesMarkdown     string
	CreatedAt         time.Time
}
