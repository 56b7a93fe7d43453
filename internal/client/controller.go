package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// Browsing defaults of the web catalog.
const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// User-facing list errors. All of them are retryable through Refetch.
const (
	MsgConnectionError = "Error de conexión. Por favor, intenta de nuevo."
	MsgNetworkError    = "Error de red. Verifica que la API esté funcionando."
	MsgEndpointMissing = "Endpoint no encontrado."
	MsgServerError     = "Error interno del servidor."
)

// ProductLister is the part of Client the Controller needs.
type ProductLister interface {
	ListProducts(ctx context.Context, f Filters) (*PageResult, error)
}

// State is a snapshot of the browsing view.
type State struct {
	Filters    Filters
	Products   []Product
	Loading    bool
	Err        string
	TotalPages int
	TotalItems int64
	HasNext    bool
	HasPrev    bool
}

// Controller keeps the filters and the current page of a catalog listing.
// Every transition refetches. When fetches overlap, only the latest one
// updates the state.
type Controller struct {
	lister ProductLister

	mu    sync.Mutex
	state State
	seq   uint64
}

// NewController returns a Controller with the default filters. Nothing is
// fetched until the first transition or Refetch.
func NewController(lister ProductLister) *Controller {
	return &Controller{
		lister: lister,
		state: State{
			Filters:    normalizeFilters(Filters{}),
			Products:   []Product{},
			TotalPages: 1,
		},
	}
}

// State returns the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// SetPage moves to page and refetches.
func (c *Controller) SetPage(ctx context.Context, page int) State {
	c.mu.Lock()
	f := c.state.Filters
	f.Page = page
	c.mu.Unlock()
	return c.load(ctx, f)
}

// SetFilters replaces every filter and refetches. Zero page and limit fall
// back to the defaults.
func (c *Controller) SetFilters(ctx context.Context, f Filters) State {
	return c.load(ctx, f)
}

// NextPage advances one page when the last fetch reported a next page.
func (c *Controller) NextPage(ctx context.Context) State {
	c.mu.Lock()
	if !c.state.HasNext {
		defer c.mu.Unlock()
		return c.snapshot()
	}
	f := c.state.Filters
	f.Page++
	c.mu.Unlock()
	return c.load(ctx, f)
}

// PrevPage goes back one page when the last fetch reported a previous page.
func (c *Controller) PrevPage(ctx context.Context) State {
	c.mu.Lock()
	if !c.state.HasPrev {
		defer c.mu.Unlock()
		return c.snapshot()
	}
	f := c.state.Filters
	f.Page--
	c.mu.Unlock()
	return c.load(ctx, f)
}

// Refetch reloads the current filters.
func (c *Controller) Refetch(ctx context.Context) State {
	c.mu.Lock()
	f := c.state.Filters
	c.mu.Unlock()
	return c.load(ctx, f)
}

func (c *Controller) load(ctx context.Context, f Filters) State {
	f = normalizeFilters(f)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Filters = f
	c.state.Loading = true
	c.state.Err = ""
	c.mu.Unlock()

	result, err := c.lister.ListProducts(ctx, apiFilters(f))

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.snapshot()
	}

	c.state.Loading = false
	if err != nil {
		// Previous products stay visible next to the error.
		c.state.Err = listErrorMessage(err)
		return c.snapshot()
	}

	c.state.Products = result.Data
	if c.state.Products == nil {
		c.state.Products = []Product{}
	}
	c.state.TotalPages = result.Pagination.TotalPages
	c.state.TotalItems = result.Pagination.TotalItems
	c.state.HasNext = result.Pagination.HasNext
	c.state.HasPrev = result.Pagination.HasPrev
	return c.snapshot()
}

// snapshot must be called with mu held.
func (c *Controller) snapshot() State {
	s := c.state
	s.Products = make([]Product, len(c.state.Products))
	copy(s.Products, c.state.Products)
	if s.Filters.Available != nil {
		v := *s.Filters.Available
		s.Filters.Available = &v
	}
	return s
}

func normalizeFilters(f Filters) Filters {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// apiFilters maps view-only sort fields onto ones the API understands.
func apiFilters(f Filters) Filters {
	switch f.Sort {
	case "createdAt", "updatedAt":
		f.Sort = "name"
	}
	return f
}

func listErrorMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Status == http.StatusNotFound:
			return MsgEndpointMissing
		case httpErr.Status >= http.StatusInternalServerError:
			return MsgServerError
		default:
			return MsgConnectionError
		}
	}
	if errors.Is(err, context.Canceled) {
		return MsgConnectionError
	}
	return MsgNetworkError
}
