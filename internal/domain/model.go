package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
// IDs are UUID strings assigned by the model's BeforeCreate hook.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PageParams holds normalized pagination input. Page is 1-based and Limit is
// always within [1, 100] once produced by pkg.NewPageParams.
type PageParams struct {
	Page  int
	Limit int
}

// Offset returns the number of records to skip before the page begins.
func (p PageParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PaginationInfo is the pagination block of a list response. Its JSON shape is
// shared with the API client and must stay stable.
type PaginationInfo struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

// PageResult is the {data, pagination} envelope returned by list operations.
type PageResult[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}
