package dto

import (
	"time"

	"github.com/google/uuid"
)

// Note: LogListResponse uses string for Id because log IDs are MD5 hashes, not UUIDs

type LogListResponse struct {
	Id        string `json:"id"`
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}

type SessionReportResponse struct {
	Id                uuid.UUID `json:"id"`
	RoomId            string    `json:"room_id"`
	SessionId         string    `json:"session_id"`
	Subject           string    `json:"subject"`
	Topic             string    `json:"topic"`
	TutorName         string    `json:"tutor_name"`
	StartedAt         time.Time `json:"started_at"`
	EndedAt           time.Time `json:"ended_at"`
	DurationMinutes   int       `json:"duration_minutes"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	CreatedAt         time.Time `json:"created_at"`
}

type SessionReportDetailResponse struct {
	SessionReportResponse
	Transcript    []TranscriptLineResponse `json:"transcript"`
	NotesMarkdown string                   `json:"notes_markdown"`
}

type TranscriptLineResponse struct {
	Id        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Image     bool      `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionReportMessage is the in-process event carrying a finished session
// to the archive consumer.
type SessionReportMessage struct {
	RoomId            string                   `json:"room_id"`
	SessionId         string                   `json:"session_id"`
	Subject           string                   `json:"subject"`
	Topic             string                   `json:"topic"`
	TutorName         string                   `json:"tutor_name"`
	StartedAt         time.Time                `json:"started_at"`
	EndedAt           time.Time                `json:"ended_at"`
	DurationMinutes   int                      `json:"duration_minutes"`
	UserMessages      int                      `json:"user_messages"`
	AssistantMessages int                      `json:"assistant_messages"`
	Transcript        []TranscriptLineResponse `json:"transcript"`
	NotesMarkdown     string                   `json:"notes_markdown"`
}
