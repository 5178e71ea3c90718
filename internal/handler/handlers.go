package handler

import (
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/hadywafa/DatabaseHub/internal/service"
	"github.com/hadywafa/DatabaseHub/static"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health         *HealthHandler
	OpenAPI        *OpenAPIHandler
	Problems       *ProblemHandler
	Notes          *NotesHandler
	AdventureWorks *AdventureWorksHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(s),
		OpenAPI:        NewOpenAPIHandler(s, static.FS),
		Problems:       NewProblemHandler(s, services.Catalog, services.Verification),
		Notes:          NewNotesHandler(s, services.Notes),
		AdventureWorks: NewAdventureWorksHandler(s, services.AdventureWorks),
	}
}
