package service

import (
	"fmt"

	"github.com/hadywafa/DatabaseHub/internal/errs"
	"github.com/hadywafa/DatabaseHub/internal/notes"
)

type NotesService struct {
	notes *notes.Notes
}

func NewNotesService(n *notes.Notes) *NotesService {
	return &NotesService{notes: n}
}

// Roadmap returns the topics in study order, optionally filtered by status.
func (s *NotesService) Roadmap(status notes.Status) []notes.Topic {
	out := []notes.Topic{}
	for _, t := range s.notes.Roadmap {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (s *NotesService) Videos() []notes.Video {
	if s.notes.Videos == nil {
		return []notes.Video{}
	}
	return s.notes.Videos
}

func (s *NotesService) Video(id string) (notes.Video, error) {
	v, ok := s.notes.Video(id)
	if !ok {
		code := "VIDEO_NOT_FOUND"
		return notes.Video{}, errs.NewNotFoundError(fmt.Sprintf("Video %q not found", id), true, &code)
	}
	return v, nil
}
