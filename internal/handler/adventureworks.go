package handler

import (
	"github.com/hadywafa/DatabaseHub/internal/adventureworks"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/labstack/echo/v4"
)

// AdventureWorksHandler exposes the fixed top-10 queries over the sample database.
type AdventureWorksHandler struct {
	Handler
	queries adventureworks.Querier
}

func NewAdventureWorksHandler(s *server.Server, q adventureworks.Querier) *AdventureWorksHandler {
	return &AdventureWorksHandler{
		Handler: NewHandler(s),
		queries: q,
	}
}

// ProductionQ1 returns the ten most expensive products.
func (h *AdventureWorksHandler) ProductionQ1(c echo.Context, req *EmptyRequest) ([]adventureworks.Product, error) {
	return h.queries.TopProductsByListPrice(c.Request().Context())
}

// ProductionQ3 returns the first ten products by name.
func (h *AdventureWorksHandler) ProductionQ3(c echo.Context, req *EmptyRequest) ([]adventureworks.Product, error) {
	return h.queries.TopProductsByName(c.Request().Context())
}

// PersonQ1 returns the first ten people by last name.
func (h *AdventureWorksHandler) PersonQ1(c echo.Context, req *EmptyRequest) ([]adventureworks.Person, error) {
	return h.queries.TopPersonsByLastName(c.Request().Context())
}

var _ adventureworks.Querier = (*adventureworks.Service)(nil)
