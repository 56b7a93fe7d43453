package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/simp-lee/minimarket/internal/domain"
)

// SeedRecord is one product of a seed file. The file is a JSON array of
// records in the wire format, without ids or timestamps.
type SeedRecord struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	IsAvailable *bool            `json:"isAvailable"`
	Category    string           `json:"category" validate:"required,max=100"`
	Image       string           `json:"image" validate:"required,max=500"`
}

// Seeder replaces the catalog with the products of a seed file.
type Seeder struct {
	store    domain.ProductStore
	validate *validator.Validate
}

// NewSeeder creates a Seeder writing to store.
func NewSeeder(store domain.ProductStore) *Seeder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Seeder{store: store, validate: v}
}

// Decode reads and validates seed records. String fields are trimmed before
// validation. Every invalid record is reported, keyed by its array index.
func (s *Seeder) Decode(r io.Reader) ([]domain.Product, error) {
	var records []SeedRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, domain.NewAppError(domain.CodeValidation, "invalid seed file", err)
	}

	products := make([]domain.Product, 0, len(records))
	var errs []error
	for i := range records {
		rec := &records[i]
		rec.Name = strings.TrimSpace(rec.Name)
		rec.Category = strings.TrimSpace(rec.Category)
		rec.Image = strings.TrimSpace(rec.Image)

		if err := s.validate.Struct(rec); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, describeValidation(err)))
			continue
		}

		available := true
		if rec.IsAvailable != nil {
			available = *rec.IsAvailable
		}
		products = append(products, domain.Product{
			Name:        rec.Name,
			Price:       rec.Price.Round(2),
			IsAvailable: available,
			Category:    rec.Category,
			Image:       rec.Image,
		})
	}
	if len(errs) > 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "invalid seed records", errors.Join(errs...))
	}
	return products, nil
}

// Seed decodes r and replaces the whole catalog with its products. Nothing is
// written when any record is invalid.
func (s *Seeder) Seed(ctx context.Context, r io.Reader) ([]domain.Product, error) {
	products, err := s.Decode(r)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.ReplaceAll(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func describeValidation(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		msg := fe.Field() + " " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields = append(fields, msg)
	}
	return errors.New(strings.Join(fields, ", "))
}
