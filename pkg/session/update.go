package session

import "tutorly-be/pkg/notes"

type UpdateType string

const (
	UpdateState   UpdateType = "state"
	UpdateSubject UpdateType = "subject"
	UpdateMessage UpdateType = "message"
	UpdateAudio   UpdateType = "audio"
	UpdateNotes   UpdateType = "notes"
	UpdateAlert   UpdateType = "alert"
)

// Update is pushed to the room observer after every visible change. The
// common fields always describe the room after the change.
type Update struct {
	Type    UpdateType      `json:"type"`
	RoomID  string          `json:"room_id"`
	State   State           `json:"state"`
	Subject string          `json:"subject"`
	Topic   string          `json:"topic"`
	MicOn   bool            `json:"mic_on"`
	Muted   bool            `json:"muted"`
	Demo    bool            `json:"demo"`
	Local   *AudioActivity  `json:"local_audio,omitempty"`
	Remote  *AudioActivity  `json:"remote_audio,omitempty"`
	Message *Message        `json:"message,omitempty"`
	Notes   *notes.Document `json:"notes,omitempty"`
	Alert   string          `json:"alert,omitempty"`
}

func (c *Controller) emit(u Update) {
	if c.onUpdate == nil {
		return
	}
	u.RoomID = c.roomID
	u.State = c.state
	u.Subject = c.subject
	u.Topic = c.topic
	u.MicOn = c.micOn
	u.Muted = c.muted
	u.Demo = c.demo
	if u.Type == UpdateAudio {
		local, remote := c.local, c.remote
		u.Local, u.Remote = &local, &remote
	}
	c.onUpdate(u)
}
