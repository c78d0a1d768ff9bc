package mapper

import (
	"tutorly-be/internal/entity"
	"tutorly-be/internal/model"
)

type WaitlistMapper struct{}

func NewWaitlistMapper() *WaitlistMapper {
	return &WaitlistMapper{}
}

func (m *WaitlistMapper) ToEntity(w *model.WaitlistEntry) *entity.WaitlistEntry {
	if w == nil {
		return nil
	}
	return &entity.WaitlistEntry{
		Id:                   w.Id,
		Name:                 w.Name,
		Email:                w.Email,
		Phone:                w.Phone,
		Role:                 w.Role,
		PrimaryUse:           w.PrimaryUse,
		WillingnessToPay:     w.WillingnessToPay,
		PreferredTutorFormat: w.PreferredTutorFormat,
		LearningStyle:        w.LearningStyle,
		BiggestFrustration:   w.BiggestFrustration,
		JoinWaitlistPerks:    w.JoinWaitlistPerks,
		SubmittedAt:          w.SubmittedAt,
		CreatedAt:            w.CreatedAt,
	}
}

func (m *WaitlistMapper) ToModel(w *entity.WaitlistEntry) *model.WaitlistEntry {
	if w == nil {
		return nil
	}
	return &model.WaitlistEntry{
		Id:                   w.Id,
		Name:                 w.Name,
		Email:                w.Email,
		Phone:                w.Phone,
		Role:                 w.Role,
		PrimaryUse:           w.PrimaryUse,
		WillingnessToPay:     w.WillingnessToPay,
		PreferredTutorFormat: w.PreferredTutorFormat,
		LearningStyle:        w.LearningStyle,
		BiggestFrustration:   w.BiggestFrustration,
		JoinWaitlistPerks:    w.JoinWaitlistPerks,
		SubmittedAt:          w.SubmittedAt,
		CreatedAt:            w.CreatedAt,
	}
}

func (m *WaitlistMapper) ToEntities(entries []*model.WaitlistEntry) []*entity.WaitlistEntry {
	out := make([]*entity.WaitlistEntry, len(entries))
	for i, w := range entries {
		out[i] = m.ToEntity(w)
	}
	return out
}
