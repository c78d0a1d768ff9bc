package contract

import "tutorly-be/internal/entity"

// RoomRepository keeps live demo rooms. Implementations close a room when it
// is deleted or expires.
type RoomRepository interface {
	Save(room *entity.DemoRoom)
	Get(id string) (*entity.DemoRoom, bool)
	Touch(id string) bool
	Delete(id string)
	Count() int
	Flush()
}
