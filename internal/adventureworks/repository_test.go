package adventureworks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&Product{}, &Person{}))
	return db
}

func strPtr(s string) *string { return &s }

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()

	modified := time.Date(2014, 2, 8, 10, 1, 36, 0, time.UTC)
	products := []Product{}
	for i := 1; i <= 12; i++ {
		products = append(products, Product{
			ProductID:     i,
			Name:          fmt.Sprintf("Product %02d", 13-i),
			ProductNumber: fmt.Sprintf("PN-%04d", i),
			ListPrice:     decimal.NewFromInt(int64(i * 100)),
			ModifiedDate:  modified,
		})
	}
	// Ties on price are broken by id.
	products[0].ListPrice = decimal.NewFromInt(1200)
	products[0].Color = strPtr("Black")

	require.NoError(t, db.Create(&products).Error)
}

func TestTopProductsByListPrice(t *testing.T) {
	db := openTestDB(t)
	seedProducts(t, db)

	got, err := NewRepository(db).TopProductsByListPrice(context.Background())
	require.NoError(t, err)
	require.Len(t, got, TopN)

	assert.Equal(t, 1, got[0].ProductID)
	assert.Equal(t, 12, got[1].ProductID)
	assert.True(t, got[0].ListPrice.Equal(decimal.NewFromInt(1200)))
	require.NotNil(t, got[0].Color)
	assert.Equal(t, "Black", *got[0].Color)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].ListPrice.GreaterThan(got[i-1].ListPrice))
	}
}

func TestTopProductsByName(t *testing.T) {
	db := openTestDB(t)
	seedProducts(t, db)

	got, err := NewRepository(db).TopProductsByName(context.Background())
	require.NoError(t, err)
	require.Len(t, got, TopN)

	assert.Equal(t, "Product 01", got[0].Name)
	assert.Equal(t, 12, got[0].ProductID)
	assert.Equal(t, "Product 10", got[9].Name)
}

func TestTopPersonsByLastName(t *testing.T) {
	db := openTestDB(t)

	people := []Person{
		{BusinessEntityID: 3, PersonType: "EM", FirstName: "Ken", LastName: "Abel"},
		{BusinessEntityID: 1, PersonType: "EM", FirstName: "Amy", LastName: "Abel"},
		{BusinessEntityID: 2, PersonType: "SC", FirstName: "Amy", LastName: "Abel"},
		{BusinessEntityID: 4, PersonType: "IN", FirstName: "Zed", LastName: "Zwilling", MiddleName: strPtr("J")},
	}
	require.NoError(t, db.Create(&people).Error)

	got, err := NewRepository(db).TopPersonsByLastName(context.Background())
	require.NoError(t, err)

	ids := []int{}
	for _, p := range got {
		ids = append(ids, p.BusinessEntityID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)
	require.NotNil(t, got[3].MiddleName)
	assert.Equal(t, "J", *got[3].MiddleName)
}

func TestEmptyTablesReturnEmptySlices(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	products, err := repo.TopProductsByName(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestMissingTableIsAnnotated(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	_, err = NewRepository(db).TopPersonsByLastName(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table:persons:")
	assert.Contains(t, err.Error(), "no such table")
}
