package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. The catalog API only reads products; they are
// created and replaced by the seeding process.
type Product struct {
	BaseModel
	Name        string          `gorm:"size:200;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;index" json:"isAvailable"`
	Category    string          `gorm:"size:100;not null;index" json:"category"`
	Image       string          `gorm:"size:500;not null" json:"image"`
}

// BeforeCreate assigns a UUID when the product has no ID yet.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps the price at cent precision.
func (p *Product) BeforeSave(_ *gorm.DB) error {
	p.Price = p.Price.Round(2)
	return nil
}

// Predicate is a storage-independent product filter. The set of variants is
// closed: MatchAll, And, NameContains, AvailabilityIs and CategoryIs.
type Predicate interface {
	isPredicate()
}

// MatchAll matches every product.
type MatchAll struct{}

// And matches products that satisfy every term.
type And struct {
	Terms []Predicate
}

// NameContains matches products whose name contains Text, ignoring case.
type NameContains struct {
	Text string
}

// AvailabilityIs matches products whose IsAvailable equals Value.
type AvailabilityIs struct {
	Value bool
}

// CategoryIs matches products whose category equals Value exactly.
type CategoryIs struct {
	Value string
}

func (MatchAll) isPredicate()       {}
func (And) isPredicate()            {}
func (NameContains) isPredicate()   {}
func (AvailabilityIs) isPredicate() {}
func (CategoryIs) isPredicate()     {}

// SortField names a sortable product column.
type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
)

// SortDirection is the direction of an Ordering.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Ordering controls the sequence of listed products.
type Ordering struct {
	Field     SortField
	Direction SortDirection
}

// FilterCriteria holds the optional filters of a list request. Nil means the
// filter was not requested.
type FilterCriteria struct {
	Search    *string
	Available *bool
	Category  *string
}

// SortCriteria holds the raw sort field and order of a list request.
type SortCriteria struct {
	Sort  string
	Order string
}

// ListQuery is the raw input of a product listing. Page and Limit may be any
// float, including NaN; they are normalized before use.
type ListQuery struct {
	Filter FilterCriteria
	Sort   SortCriteria
	Page   float64
	Limit  float64
}

// ProductStore is the storage port used by the product service. Find returns
// the page window of products matching pred in the given order; FindByID
// returns ErrNotFound when no product has the id.
type ProductStore interface {
	Find(ctx context.Context, pred Predicate, order Ordering, page PageParams) ([]Product, error)
	Count(ctx context.Context, pred Predicate) (int64, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	// ReplaceAll deletes every product and inserts products in one transaction.
	ReplaceAll(ctx context.Context, products []Product) (int, error)
}

// ProductService defines the catalog operations exposed to adapters.
type ProductService interface {
	ListProducts(ctx context.Context, q ListQuery) (*PageResult[Product], error)
	GetProduct(ctx context.Context, id string) (*Product, bool, error)
}
