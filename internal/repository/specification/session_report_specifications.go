package specification

import (
	"tutorly-be/pkg/tutor"

	"gorm.io/gorm"
)

type BySubject struct {
	Subject string
}

func (s BySubject) Apply(db *gorm.DB) *gorm.DB {
	if s.Subject == "" {
		return db
	}
	return db.Where("subject = ?", tutor.Normalize(s.Subject))
}

type ByRoomID struct {
	RoomID string
}

func (s ByRoomID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_id = ?", s.RoomID)
}
