package dto

import (
	"time"

	"tutorly-be/pkg/notes"
	"tutorly-be/pkg/session"
	"tutorly-be/pkg/sketch"
)

type CreateRoomRequest struct {
	Subject string `json:"subject" validate:"omitempty,max=64"`
	Topic   string `json:"topic" validate:"omitempty,max=255"`
}

type RoomResponse struct {
	session.Snapshot
	CreatedAt time.Time `json:"created_at"`
}

type ChangeSubjectRequest struct {
	Subject string `json:"subject" validate:"required,max=64"`
	Topic   string `json:"topic" validate:"omitempty,max=255"`
}

type ChangeTopicRequest struct {
	Topic string `json:"topic" validate:"required,max=255"`
}

type SendChatRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type AttachImageRequest struct {
	DataURI string `json:"data_uri" validate:"required"`
}

type ToggleResponse struct {
	Enabled bool `json:"enabled"`
}

type NotesResponse struct {
	notes.Document
	HTML string `json:"html"`
}

type EmailNotesRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type SetToolRequest struct {
	Tool string `json:"tool" validate:"required,oneof=pen calculator"`
}

const (
	PointerDown  = "down"
	PointerMove  = "move"
	PointerUp    = "up"
	PointerLeave = "leave"
)

type PointerRequest struct {
	Action string  `json:"action" validate:"required,oneof=down move up leave"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type PointerResponse struct {
	Accepted   bool               `json:"accepted"`
	Expression *sketch.Expression `json:"expression,omitempty"`
}

type SketchResponse struct {
	sketch.State
	SVG string `json:"svg"`
}

type CalculateRequest struct {
	Expression string `json:"expression" validate:"required,max=256"`
}
