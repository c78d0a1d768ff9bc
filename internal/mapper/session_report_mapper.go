package mapper

import (
	"encoding/json"

	"tutorly-be/internal/entity"
	"tutorly-be/internal/model"

	"gorm.io/datatypes"
)

type SessionReportMapper struct{}

func NewSessionReportMapper() *SessionReportMapper {
	return &SessionReportMapper{}
}

// ToEntity tolerates a malformed transcript column by returning no lines.
func (m *SessionReportMapper) ToEntity(r *model.SessionReport) *entity.SessionReport {
	if r == nil {
		return nil
	}
	var lines []entity.TranscriptLine
	if len(r.Transcript) > 0 {
		if err := json.Unmarshal(r.Transcript, &lines); err != nil {
			lines = nil
		}
	}
	return &entity.SessionReport{
		Id:                r.Id,
		RoomId:            r.RoomId,
		SessionId:         r.SessionId,
		Subject:           r.Subject,
		Topic:             r.Topic,
		TutorName:         r.TutorName,
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
		DurationMinutes:   r.DurationMinutes,
		UserMessages:      r.UserMessages,
		AssistantMessages: r.AssistantMessages,
		Transcript:        lines,
		NotesMarkdown:     r.NotesMarkdown,
		CreatedAt:         r.CreatedAt,
	}
}

func (m *SessionReportMapper) ToModel(r *entity.SessionReport) (*model.SessionReport, error) {
	if r == nil {
		return nil, nil
	}
	lines := r.Transcript
	if lines == nil {
		lines = []entity.TranscriptLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	return &model.SessionReport{
		Id:                r.Id,
		RoomId:            r.RoomId,
		SessionId:         r.SessionId,
		Subject:           r.Subject,
		Topic:             r.Topic,
		TutorName:         r.TutorName,
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
		DurationMinutes:   r.DurationMinutes,
		UserMessages:      r.UserMessages,
		AssistantMessages: r.AssistantMessages,
		Transcript:        datatypes.JSON(raw),
		NotesMarkdown:     r.NotesMarkdown,
		CreatedAt:         r.CreatedAt,
	}, nil
}

func (m *SessionReportMapper) ToEntities(reports []*model.SessionReport) []*entity.SessionReport {
	out := make([]*entity.SessionReport, len(reports))
	for i, r := range reports {
		out[i] = m.ToEntity(r)
	}
	return out
}
