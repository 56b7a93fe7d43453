package product

import "github.com/simp-lee/minimarket/internal/domain"

// BuildOrdering maps the raw sort field and order to an Ordering. Only "price"
// selects the price column and only "desc" selects descending order; every
// other value, including the empty string, falls back to name ascending.
func BuildOrdering(criteria domain.SortCriteria) domain.Ordering {
	order := domain.Ordering{Field: domain.SortByName, Direction: domain.Ascending}
	if criteria.Sort == string(domain.SortByPrice) {
		order.Field = domain.SortByPrice
	}
	if criteria.Order == string(domain.Descending) {
		order.Direction = domain.Descending
	}
	return order
}
