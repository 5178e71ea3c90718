package service

import (
	"errors"
	"fmt"

	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/errs"
)

// ProblemNotFoundCode is the error code for an unknown problem id.
const ProblemNotFoundCode = "PROBLEM_NOT_FOUND"

// ProblemSummary is the list view of a problem, without the SQL.
type ProblemSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Topic    string   `json:"topic"`
	Tables   []string `json:"tables"`
	Attempts int      `json:"attempts"`
}

type CatalogService struct {
	catalog *catalog.Catalog
}

func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// List returns the problems of topic, or all of them when topic is empty.
func (s *CatalogService) List(topic string) []ProblemSummary {
	problems := s.catalog.ByTopic(topic)

	out := make([]ProblemSummary, 0, len(problems))
	for _, p := range problems {
		out = append(out, ProblemSummary{
			ID:       p.ID,
			Title:    p.Title,
			Topic:    p.Topic,
			Tables:   p.Tables,
			Attempts: len(p.Attempts),
		})
	}
	return out
}

func (s *CatalogService) Topics() []string {
	return s.catalog.Topics()
}

// Get returns one problem with its attempts. Unknown ids become a 404.
func (s *CatalogService) Get(id string) (catalog.Problem, error) {
	p, err := s.catalog.Get(id)
	if err != nil {
		return catalog.Problem{}, problemError(id, err)
	}
	return p, nil
}

// Resolve maps ids to problems in the given order. No ids means all problems.
func (s *CatalogService) Resolve(ids []string) ([]catalog.Problem, error) {
	if len(ids) == 0 {
		return s.catalog.All(), nil
	}

	problems := make([]catalog.Problem, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, nil
}

func problemError(id string, err error) error {
	if errors.Is(err, catalog.ErrProblemNotFound) {
		code := ProblemNotFoundCode
		return errs.NewNotFoundError(fmt.Sprintf("Problem %q not found", id), true, &code)
	}
	return err
}
