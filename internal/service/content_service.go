package service

import (
	"context"

	"tutorly-be/internal/dto"
	"tutorly-be/pkg/content"
	"tutorly-be/pkg/tutor"
)

type IContentService interface {
	Pages(ctx context.Context) []content.Page
	Page(ctx context.Context, slug string) (*content.Page, error)
	Posts(ctx context.Context) []content.Post
	Post(ctx context.Context, slug string) (*content.Post, error)
	FAQs(ctx context.Context) []content.FAQ
	Team(ctx context.Context) []content.TeamMember
	Tutors(ctx context.Context) []dto.TutorResponse
}

type contentService struct {
	directory *tutor.Directory
}

func NewContentService(directory *tutor.Directory) IContentService {
	if directory == nil {
		directory = tutor.NewDirectory(nil)
	}
	return &contentService{directory: directory}
}

func (s *contentService) Pages(ctx context.Context) []content.Page {
	return content.Pages()
}

func (s *contentService) Page(ctx context.Context, slug string) (*content.Page, error) {
	p, err := content.Lookup(slug)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *contentService) Posts(ctx context.Context) []content.Post {
	return content.Posts()
}

func (s *contentService) Post(ctx context.Context, slug string) (*content.Post, error) {
	p, err := content.PostBySlug(slug)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *contentService) FAQs(ctx context.Context) []content.FAQ {
	return content.FAQs()
}

func (s *contentService) Team(ctx context.Context) []content.TeamMember {
	return content.Team()
}

// Tutors lists every demo tutor with its topic menu and assistant.
func (s *contentService) Tutors(ctx context.Context) []dto.TutorResponse {
	all := tutor.All()
	res := make([]dto.TutorResponse, 0, len(all))
	for _, p := range all {
		res = append(res, dto.TutorResponse{
			Personality: p,
			Selector:    s.directory.Selector(p.Key),
			Topics:      tutor.Topics(p.Key),
		})
	}
	return res
}
