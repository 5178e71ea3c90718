package adventureworks

import (
	"context"

	"github.com/hadywafa/DatabaseHub/internal/sqlerr"
	"gorm.io/gorm"
)

// Repository runs the demo queries through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TopProductsByListPrice is production Q1: the ten most expensive products.
func (r *Repository) TopProductsByListPrice(ctx context.Context) ([]Product, error) {
	products := []Product{}
	err := r.db.WithContext(ctx).
		Order("listprice DESC").
		Order("productid").
		Limit(TopN).
		Find(&products).Error
	if err != nil {
		return nil, sqlerr.WithTable("products", err)
	}
	return products, nil
}

// TopProductsByName is production Q3: the first ten products alphabetically.
func (r *Repository) TopProductsByName(ctx context.Context) ([]Product, error) {
	products := []Product{}
	err := r.db.WithContext(ctx).
		Order("name").
		Order("productid").
		Limit(TopN).
		Find(&products).Error
	if err != nil {
		return nil, sqlerr.WithTable("products", err)
	}
	return products, nil
}

// TopPersonsByLastName is person Q1.
func (r *Repository) TopPersonsByLastName(ctx context.Context) ([]Person, error) {
	people := []Person{}
	err := r.db.WithContext(ctx).
		Order("lastname").
		Order("firstname").
		Order("businessentityid").
		Limit(TopN).
		Find(&people).Error
	if err != nil {
		return nil, sqlerr.WithTable("persons", err)
	}
	return people, nil
}
