package handler

import (
	"github.com/hadywafa/DatabaseHub/internal/notes"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/labstack/echo/v4"
)

type studyNotes interface {
	Roadmap(status notes.Status) []notes.Topic
	Videos() []notes.Video
	Video(id string) (notes.Video, error)
}

type NotesHandler struct {
	Handler
	notes studyNotes
}

func NewNotesHandler(s *server.Server, n studyNotes) *NotesHandler {
	return &NotesHandler{
		Handler: NewHandler(s),
		notes:   n,
	}
}

func (h *NotesHandler) Roadmap(c echo.Context, req *RoadmapRequest) ([]notes.Topic, error) {
	return h.notes.Roadmap(notes.Status(req.Status)), nil
}

func (h *NotesHandler) Videos(c echo.Context, req *EmptyRequest) ([]notes.Video, error) {
	return h.notes.Videos(), nil
}

func (h *NotesHandler) Video(c echo.Context, req *VideoRequest) (notes.Video, error) {
	return h.notes.Video(req.ID)
}
