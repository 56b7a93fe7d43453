package pkg

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/minimarket/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 100

	// maxPage keeps (page-1)*limit inside int64 for any accepted limit.
	maxPage = math.MaxInt32
)

// Query parameter names of the product listing.
const (
	QueryParamPage      = "page"
	QueryParamLimit     = "limit"
	QueryParamSearch    = "search"
	QueryParamSort      = "sort"
	QueryParamOrder     = "order"
	QueryParamAvailable = "available"
	QueryParamCategory  = "category"
)

// NewPageParams normalizes raw page and limit values.
//
// Page becomes max(1, floor(page)) and limit becomes clamp(floor(limit), 1, 100).
// NaN and infinite inputs fall back to DefaultPage and DefaultLimit. It never fails.
func NewPageParams(rawPage, rawLimit float64) domain.PageParams {
	page := DefaultPage
	if !math.IsNaN(rawPage) && !math.IsInf(rawPage, 0) {
		f := math.Floor(rawPage)
		switch {
		case f < 1:
			page = 1
		case f > maxPage:
			page = maxPage
		default:
			page = int(f)
		}
	}

	limit := DefaultLimit
	if !math.IsNaN(rawLimit) && !math.IsInf(rawLimit, 0) {
		f := math.Floor(rawLimit)
		switch {
		case f < MinLimit:
			limit = MinLimit
		case f > MaxLimit:
			limit = MaxLimit
		default:
			limit = int(f)
		}
	}

	return domain.PageParams{Page: page, Limit: limit}
}

// NewPaginationInfo computes the pagination block for a page of a result set
// holding total items.
func NewPaginationInfo(params domain.PageParams, total int64) domain.PaginationInfo {
	totalPages := 0
	if params.Limit > 0 && total > 0 {
		totalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}

	return domain.PaginationInfo{
		CurrentPage:  params.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
		HasNext:      params.Page < totalPages,
		HasPrev:      params.Page > 1,
	}
}

// ParseListQuery extracts listing parameters from the query string.
//
// page and limit are read like JavaScript's parseInt: the leading integer
// is used and the rest ignored, so "3abc" is 3 and "2.7" is 2. Absent values
// take the defaults; values without a leading integer become NaN, which
// NewPageParams maps to the defaults.
// available is true only for the literal "true"; any other non-empty value
// means false and an absent value means no availability filter.
func ParseListQuery(c *gin.Context) domain.ListQuery {
	q := domain.ListQuery{
		Page:  parseNumber(c.Query(QueryParamPage), DefaultPage),
		Limit: parseNumber(c.Query(QueryParamLimit), DefaultLimit),
		Sort: domain.SortCriteria{
			Sort:  c.Query(QueryParamSort),
			Order: c.Query(QueryParamOrder),
		},
	}

	if search, ok := c.GetQuery(QueryParamSearch); ok {
		q.Filter.Search = &search
	}
	if raw := c.Query(QueryParamAvailable); raw != "" {
		available := raw == "true"
		q.Filter.Available = &available
	}
	if category := strings.TrimSpace(c.Query(QueryParamCategory)); category != "" {
		q.Filter.Category = &category
	}

	return q
}

func parseNumber(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	end := 0
	if raw[0] == '+' || raw[0] == '-' {
		end = 1
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return math.NaN()
	}

	// Digit runs too long for an int still parse as a float.
	v, err := strconv.ParseFloat(raw[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for the given page.
func Paginate(params domain.PageParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.Limit)
	}
}
