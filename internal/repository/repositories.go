// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/hadywafa/DatabaseHub/internal/adventureworks"
	"github.com/hadywafa/DatabaseHub/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	// Runs persists verification runs through raw pgx.
	Runs *RunRepository

	// AdventureWorks queries the sample tables through the gorm context.
	AdventureWorks *adventureworks.Repository
}

// NewRepositories wires every repository onto the shared pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Runs:           NewRunRepository(s.DB.Pool),
		AdventureWorks: adventureworks.NewRepository(s.DB.ORM),
	}
}
