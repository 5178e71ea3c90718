package service

import (
	"fmt"

	"github.com/hadywafa/DatabaseHub/internal/adventureworks"
	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/lib/email"
	"github.com/hadywafa/DatabaseHub/internal/lib/job"
	"github.com/hadywafa/DatabaseHub/internal/notes"
	"github.com/hadywafa/DatabaseHub/internal/repository"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/hadywafa/DatabaseHub/internal/verify"
)

// Services groups every business service so router and CLI wiring pass
// one value around.
type Services struct {
	Catalog        *CatalogService
	Notes          *NotesService
	Verification   *VerificationService
	AdventureWorks *adventureworks.Service
	Email          *email.Client
	Job            *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	problems, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load problem catalog: %w", err)
	}

	studyNotes, err := notes.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load study notes: %w", err)
	}

	catalogService := NewCatalogService(problems)

	verifier := verify.New(
		verify.WithConcurrency(s.Config.Catalog.VerifyConcurrency),
		verify.WithLogger(*s.Logger),
	)

	var cache adventureworks.Cache
	if s.Redis != nil {
		cache = adventureworks.NewRedisCache(s.Redis)
	}

	return &Services{
		Catalog:      catalogService,
		Notes:        NewNotesService(studyNotes),
		Verification: NewVerificationService(catalogService, verifier, repos.Runs, s.Job, *s.Logger),
		AdventureWorks: adventureworks.NewService(
			repos.AdventureWorks,
			cache,
			s.Config.AdventureWorks.CacheTTL,
			*s.Logger,
		),
		Email: email.NewClient(s.Config, s.Logger),
		Job:   s.Job,
	}, nil
}
