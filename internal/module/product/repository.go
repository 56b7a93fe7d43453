package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/minimarket/internal/domain"
	"github.com/simp-lee/minimarket/internal/pkg"
)

// insertBatchSize bounds the rows per INSERT when replacing the catalog.
const insertBatchSize = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productRepository implements domain.ProductStore using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductStore backed by the given GORM database.
func NewProductRepository(db *gorm.DB) domain.ProductStore {
	return &productRepository{db: db}
}

// Find returns one page of the products matching pred.
func (r *productRepository) Find(ctx context.Context, pred domain.Predicate, order domain.Ordering, page domain.PageParams) ([]domain.Product, error) {
	query, err := applyPredicate(r.db.WithContext(ctx).Model(&domain.Product{}), pred)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := query.Scopes(
		orderBy(order),
		pkg.Paginate(page),
	).Find(&products).Error; err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// Count returns the number of products matching pred.
func (r *productRepository) Count(ctx context.Context, pred domain.Predicate) (int64, error) {
	query, err := applyPredicate(r.db.WithContext(ctx).Model(&domain.Product{}), pred)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// FindByID retrieves a product by its primary key.
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

// ReplaceAll deletes every product and inserts products, all or nothing.
func (r *productRepository) ReplaceAll(ctx context.Context, products []domain.Product) (int, error) {
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, insertBatchSize).Error
	})
	if err != nil {
		return 0, mapError(err)
	}
	return len(products), nil
}

// applyPredicate narrows db to the rows matching pred.
func applyPredicate(db *gorm.DB, pred domain.Predicate) (*gorm.DB, error) {
	sql, args, err := predicateSQL(pred)
	if err != nil {
		return nil, err
	}
	if sql == "" {
		return db, nil
	}
	return db.Where(sql, args...), nil
}

// predicateSQL renders pred as a WHERE fragment. MatchAll renders as "".
func predicateSQL(pred domain.Predicate) (string, []any, error) {
	switch p := pred.(type) {
	case nil, domain.MatchAll:
		return "", nil, nil
	case domain.NameContains:
		pattern := "%" + likeEscaper.Replace(strings.ToLower(p.Text)) + "%"
		return `LOWER(name) LIKE ? ESCAPE '\'`, []any{pattern}, nil
	case domain.AvailabilityIs:
		return "is_available = ?", []any{p.Value}, nil
	case domain.CategoryIs:
		return "category = ?", []any{p.Value}, nil
	case domain.And:
		parts := make([]string, 0, len(p.Terms))
		var args []any
		for _, term := range p.Terms {
			sql, termArgs, err := predicateSQL(term)
			if err != nil {
				return "", nil, err
			}
			if sql == "" {
				continue
			}
			parts = append(parts, "("+sql+")")
			args = append(args, termArgs...)
		}
		return strings.Join(parts, " AND "), args, nil
	default:
		return "", nil, domain.NewAppError(domain.CodeInternal, "unsupported predicate", fmt.Errorf("predicate %T", pred))
	}
}

// orderBy sorts by the requested column and then by id, so rows with equal
// keys keep a stable position across pages.
func orderBy(order domain.Ordering) func(db *gorm.DB) *gorm.DB {
	column := string(domain.SortByName)
	if order.Field == domain.SortByPrice {
		column = string(domain.SortByPrice)
	}
	desc := order.Direction == domain.Descending

	return func(db *gorm.DB) *gorm.DB {
		return db.
			Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
