package product

import (
	"strings"

	"github.com/simp-lee/minimarket/internal/domain"
)

// BuildFilter converts request filters into a storage-independent predicate.
//
// A search that is blank after trimming adds no term. With no terms the result
// is MatchAll, with a single term it is that term, otherwise an And of all of
// them in search, availability, category order.
func BuildFilter(criteria domain.FilterCriteria) domain.Predicate {
	var terms []domain.Predicate

	if criteria.Search != nil {
		if text := strings.TrimSpace(*criteria.Search); text != "" {
			terms = append(terms, domain.NameContains{Text: text})
		}
	}
	if criteria.Available != nil {
		terms = append(terms, domain.AvailabilityIs{Value: *criteria.Available})
	}
	if criteria.Category != nil {
		if category := strings.TrimSpace(*criteria.Category); category != "" {
			terms = append(terms, domain.CategoryIs{Value: category})
		}
	}

	switch len(terms) {
	case 0:
		return domain.MatchAll{}
	case 1:
		return terms[0]
	default:
		return domain.And{Terms: terms}
	}
}
