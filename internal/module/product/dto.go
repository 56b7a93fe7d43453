package product

import (
	"time"

	"github.com/simp-lee/minimarket/internal/domain"
)

// ProductResponse is the wire form of a product. Price is a JSON number.
type ProductResponse struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProductResponse converts a domain product to its wire form.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.Round(2).InexactFloat64(),
		IsAvailable: p.IsAvailable,
		Category:    p.Category,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newPageResponse(result *domain.PageResult[domain.Product]) *domain.PageResult[ProductResponse] {
	data := make([]ProductResponse, len(result.Data))
	for i := range result.Data {
		data[i] = NewProductResponse(&result.Data[i])
	}
	return &domain.PageResult[ProductResponse]{Data: data, Pagination: result.Pagination}
}
