package dto

import "tutorly-be/pkg/tutor"

type TutorResponse struct {
	tutor.Personality
	Selector string   `json:"assistant_id"`
	Topics   []string `json:"topics"`
}
