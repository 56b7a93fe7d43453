package product

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/minimarket/internal/domain"
)

// fakeStore is an in-memory ProductStore that records how it was called.
type fakeStore struct {
	mu sync.Mutex

	products []domain.Product
	total    int64

	findErr  error
	countErr error
	byIDErr  error

	// blockFind makes Find wait for its context to end.
	blockFind bool

	findCalls  int
	countCalls int
	byIDCalls  int
	lastPred   domain.Predicate
	lastOrder  domain.Ordering
	lastPage   domain.PageParams
	lastID     string
}

func (f *fakeStore) Find(ctx context.Context, pred domain.Predicate, order domain.Ordering, page domain.PageParams) ([]domain.Product, error) {
	f.mu.Lock()
	f.findCalls++
	f.lastPred, f.lastOrder, f.lastPage = pred, order, page
	block, err := f.blockFind, f.findErr
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return f.products, nil
}

func (f *fakeStore) Count(_ context.Context, _ domain.Predicate) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.total, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byIDCalls++
	f.lastID = id
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) ReplaceAll(_ context.Context, products []domain.Product) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append([]domain.Product(nil), products...)
	f.total = int64(len(products))
	return len(products), nil
}

func TestListProducts_NormalizesAndBuildsQuery(t *testing.T) {
	store := &fakeStore{}
	svc := NewProductService(store)

	search := "  lamp "
	available := true
	_, err := svc.ListProducts(context.Background(), domain.ListQuery{
		Filter: domain.FilterCriteria{Search: &search, Available: &available},
		Sort:   domain.SortCriteria{Sort: "price", Order: "desc"},
		Page:   2.7,
		Limit:  500,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.findCalls)
	assert.Equal(t, 1, store.countCalls)
	assert.Equal(t, domain.PageParams{Page: 2, Limit: 100}, store.lastPage)
	assert.Equal(t, domain.Ordering{Field: domain.SortByPrice, Direction: domain.Descending}, store.lastOrder)
	assert.Equal(t, domain.And{Terms: []domain.Predicate{
		domain.NameContains{Text: "lamp"},
		domain.AvailabilityIs{Value: true},
	}}, store.lastPred)
}

func TestListProducts_NaNFallsBackToDefaults(t *testing.T) {
	store := &fakeStore{}
	svc := NewProductService(store)

	result, err := svc.ListProducts(context.Background(), domain.ListQuery{Page: math.NaN(), Limit: math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, domain.PageParams{Page: 1, Limit: 10}, store.lastPage)
	assert.Equal(t, 1, result.Pagination.CurrentPage)
	assert.Equal(t, 10, result.Pagination.ItemsPerPage)
}

func TestListProducts_EmptyDataIsNeverNil(t *testing.T) {
	svc := NewProductService(&fakeStore{})

	result, err := svc.ListProducts(context.Background(), domain.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Pagination.TotalPages)
}

func TestListProducts_CountFailureCancelsFetch(t *testing.T) {
	countErr := errors.New("count exploded")
	store := &fakeStore{countErr: countErr, blockFind: true}
	svc := NewProductService(store)

	result, err := svc.ListProducts(context.Background(), domain.ListQuery{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.Nil(t, result, "no partial result")
	assert.True(t, domain.IsInternal(err))
	assert.ErrorIs(t, err, countErr)
}

func TestListProducts_FetchFailure(t *testing.T) {
	findErr := domain.NewAppError(domain.CodeInternal, "database error", errors.New("disk I/O error"))
	store := &fakeStore{findErr: findErr, total: 3}
	svc := NewProductService(store)

	result, err := svc.ListProducts(context.Background(), domain.ListQuery{Page: 1, Limit: 10})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, findErr)
	assert.Equal(t, "disk I/O error", domain.Cause(err))
}

func TestGetProduct_BlankIDSkipsStore(t *testing.T) {
	for _, id := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", id), func(t *testing.T) {
			store := &fakeStore{}
			svc := NewProductService(store)

			p, found, err := svc.GetProduct(context.Background(), id)
			assert.Nil(t, p)
			assert.False(t, found)
			assert.True(t, domain.IsValidation(err), "got %v", err)
			assert.Zero(t, store.byIDCalls, "blank id must not reach the store")
		})
	}
}

func TestGetProduct_MalformedIDSkipsStore(t *testing.T) {
	for _, id := range []string{"abc", "12345", "64f1c2e9a7b3c4d5e6f70812", "not-a-uuid-at-all-0000000000000000"} {
		t.Run(id, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewProductService(store)

			_, found, err := svc.GetProduct(context.Background(), id)
			assert.False(t, found)
			assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
			assert.Zero(t, store.byIDCalls)
		})
	}
}

func TestGetProduct_FoundAndCanonicalID(t *testing.T) {
	id := uuid.NewString()
	store := &fakeStore{products: []domain.Product{{BaseModel: domain.BaseModel{ID: id}, Name: "Té"}}}
	svc := NewProductService(store)

	p, found, err := svc.GetProduct(context.Background(), "  "+id+" ")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Té", p.Name)

	// The URN form resolves to the same canonical id.
	_, found, err = svc.GetProduct(context.Background(), "urn:uuid:"+id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, store.lastID)
}

func TestGetProduct_NotFound(t *testing.T) {
	store := &fakeStore{}
	svc := NewProductService(store)

	p, found, err := svc.GetProduct(context.Background(), uuid.NewString())
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, p)
	assert.Equal(t, 1, store.byIDCalls)
}

func TestGetProduct_StoreFailureIsNotNotFound(t *testing.T) {
	store := &fakeStore{byIDErr: errors.New("connection reset")}
	svc := NewProductService(store)

	_, found, err := svc.GetProduct(context.Background(), uuid.NewString())
	assert.False(t, found)
	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))
	assert.False(t, domain.IsNotFound(err))
}

func TestCheapestAvailable(t *testing.T) {
	store := &fakeStore{}

	_, err := CheapestAvailable(context.Background(), store, 250)
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityIs{Value: true}, store.lastPred)
	assert.Equal(t, domain.Ordering{Field: domain.SortByPrice, Direction: domain.Ascending}, store.lastOrder)
	assert.Equal(t, domain.PageParams{Page: 1, Limit: 250}, store.lastPage, "count is not capped")

	for _, n := range []int{0, -1} {
		_, err := CheapestAvailable(context.Background(), store, n)
		assert.True(t, domain.IsValidation(err), "n=%d: got %v", n, err)
	}
}

// --------------- against SQLite ---------------

func TestListProducts_SQLite_FirstOfThreePages(t *testing.T) {
	db := setupTestDB(t)
	var products []domain.Product
	for i := 0; i < 25; i++ {
		products = append(products, newProduct(fmt.Sprintf("Producto %02d", i), "1.00", true, "x"))
	}
	insertProducts(t, db, products...)
	svc := NewProductService(NewProductRepository(db))

	result, err := svc.ListProducts(context.Background(), domain.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Data, 10)
	assert.Equal(t, domain.PaginationInfo{
		CurrentPage: 1, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10, HasNext: true, HasPrev: false,
	}, result.Pagination)
}

func TestListProducts_SQLite_AvailableByPrice(t *testing.T) {
	db := setupTestDB(t)
	insertProducts(t, db,
		newProduct("Uno", "19.99", true, "x"),
		newProduct("Dos", "39.99", false, "x"),
		newProduct("Tres", "49.99", true, "x"),
	)
	svc := NewProductService(NewProductRepository(db))

	available := true
	result, err := svc.ListProducts(context.Background(), domain.ListQuery{
		Filter: domain.FilterCriteria{Available: &available},
		Sort:   domain.SortCriteria{Sort: "price", Order: "asc"},
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)

	prices := make([]string, len(result.Data))
	for i, p := range result.Data {
		prices[i] = p.Price.StringFixed(2)
	}
	assert.Equal(t, []string{"19.99", "49.99"}, prices)
	assert.EqualValues(t, 2, result.Pagination.TotalItems)
}

func TestListProducts_SQLite_PagePastTheEnd(t *testing.T) {
	db := setupTestDB(t)
	insertProducts(t, db,
		newProduct("A", "1.00", true, "x"),
		newProduct("B", "2.00", true, "x"),
		newProduct("C", "3.00", true, "x"),
	)
	svc := NewProductService(NewProductRepository(db))

	result, err := svc.ListProducts(context.Background(), domain.ListQuery{Page: 99, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Equal(t, 99, result.Pagination.CurrentPage)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
}

func TestGetProduct_SQLite_MissingUUID(t *testing.T) {
	db := setupTestDB(t)
	insertProducts(t, db, newProduct("A", "1.00", true, "x"))
	svc := NewProductService(NewProductRepository(db))

	p, found, err := svc.GetProduct(context.Background(), uuid.NewString())
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, p)
}
