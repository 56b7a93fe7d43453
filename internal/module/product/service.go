package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/minimarket/internal/domain"
	"github.com/simp-lee/minimarket/internal/pkg"
)

// DefaultCheapestCount is the number of products CheapestAvailable returns
// when no count is given.
const DefaultCheapestCount = 3

// productService implements domain.ProductService.
type productService struct {
	store domain.ProductStore
}

// NewProductService creates a new ProductService with the given store.
func NewProductService(store domain.ProductStore) domain.ProductService {
	return &productService{store: store}
}

// ListProducts returns one page of the catalog. The page and the total count
// are read concurrently; the first failure cancels the other read and is
// returned without a partial result.
func (s *productService) ListProducts(ctx context.Context, q domain.ListQuery) (*domain.PageResult[domain.Product], error) {
	params := pkg.NewPageParams(q.Page, q.Limit)
	pred := BuildFilter(q.Filter)
	order := BuildOrdering(q.Sort)

	var (
		products []domain.Product
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.store.Find(gctx, pred, order, params)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, pred)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError(err)
	}

	if products == nil {
		products = []domain.Product{}
	}
	return &domain.PageResult[domain.Product]{
		Data:       products,
		Pagination: pkg.NewPaginationInfo(params, total),
	}, nil
}

// GetProduct looks a product up by id. A blank or malformed id is a
// validation error and never reaches the store. A well-formed id without a
// product yields (nil, false, nil).
func (s *productService) GetProduct(ctx context.Context, id string) (*domain.Product, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, domain.ErrInvalidIdentifier
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, false, domain.ErrInvalidIdentifier
	}

	product, err := s.store.FindByID(ctx, parsed.String())
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, internalError(err)
	}
	return product, true, nil
}

// CheapestAvailable returns the n cheapest available products, cheapest
// first. n is not capped by the listing page size.
func CheapestAvailable(ctx context.Context, store domain.ProductStore, n int) ([]domain.Product, error) {
	if n <= 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "count must be greater than 0", nil)
	}

	products, err := store.Find(ctx,
		domain.AvailabilityIs{Value: true},
		domain.Ordering{Field: domain.SortByPrice, Direction: domain.Ascending},
		domain.PageParams{Page: 1, Limit: n},
	)
	if err != nil {
		return nil, internalError(err)
	}
	return products, nil
}

// internalError keeps errors that already carry a code and marks everything
// else as an internal failure.
func internalError(err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
