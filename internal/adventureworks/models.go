// Package adventureworks is the ORM context over the AdventureWorks
// sample database and the two demo query sets built on it.
//
// The tables are the Postgres port of the sample, so names are lowercase
// and unqualified; the connection's search_path resolves them.
package adventureworks

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopN is the fixed row limit of every demo query.
const TopN = 10

// Product maps production.product.
type Product struct {
	ProductID     int             `gorm:"column:productid;primaryKey" json:"productId"`
	Name          string          `gorm:"column:name" json:"name"`
	ProductNumber string          `gorm:"column:productnumber" json:"productNumber"`
	Color         *string         `gorm:"column:color" json:"color"`
	ListPrice     decimal.Decimal `gorm:"column:listprice;type:numeric(19,4)" json:"listPrice"`
	ModifiedDate  time.Time       `gorm:"column:modifieddate;type:timestamp" json:"modifiedDate"`
}

func (Product) TableName() string {
	return "product"
}

// Person maps person.person.
type Person struct {
	BusinessEntityID int       `gorm:"column:businessentityid;primaryKey" json:"businessEntityId"`
	PersonType       string    `gorm:"column:persontype" json:"personType"`
	FirstName        string    `gorm:"column:firstname" json:"firstName"`
	MiddleName       *string   `gorm:"column:middlename" json:"middleName"`
	LastName         string    `gorm:"column:lastname" json:"lastName"`
	ModifiedDate     time.Time `gorm:"column:modifieddate;type:timestamp" json:"modifiedDate"`
}

func (Person) TableName() string {
	return "person"
}
