package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const (
	msgDetailPrefix      = "Error al cargar el producto: "
	msgInvalidProduct    = "Los datos del producto están incompletos o son inválidos"
	msgProductNotFound   = "Producto no encontrado"
	msgUnknownDetailFail = "Error desconocido"
)

// ProductGetter is the part of Client the DetailController needs.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// DetailState is a snapshot of a product detail view. Exactly one of
// Product, NotFound or Err is set once loading finishes.
type DetailState struct {
	ID       string
	Product  *Product
	Loading  bool
	NotFound bool
	Err      string
}

// DetailController loads a single product.
type DetailController struct {
	getter ProductGetter

	mu    sync.Mutex
	state DetailState
	seq   uint64
}

// NewDetailController returns an idle DetailController.
func NewDetailController(getter ProductGetter) *DetailController {
	return &DetailController{getter: getter}
}

// State returns the current detail state.
func (d *DetailController) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Load fetches the product with the given id.
func (d *DetailController) Load(ctx context.Context, id string) DetailState {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.state = DetailState{ID: id, Loading: true}
	d.mu.Unlock()

	p, err := d.getter.GetProduct(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return d.state
	}

	next := DetailState{ID: id}
	switch {
	case errors.Is(err, ErrNotFound):
		next.NotFound = true
		next.Err = msgProductNotFound
	case err != nil:
		next.Err = msgDetailPrefix + detailCause(err)
	case !validProduct(p):
		next.Err = msgDetailPrefix + msgInvalidProduct
	default:
		next.Product = p
	}
	d.state = next
	return next
}

// Refetch loads the last requested id again.
func (d *DetailController) Refetch(ctx context.Context) DetailState {
	d.mu.Lock()
	id := d.state.ID
	d.mu.Unlock()
	return d.Load(ctx, id)
}

func detailCause(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return msgUnknownDetailFail
}

func validProduct(p *Product) bool {
	return p != nil &&
		p.ID != "" &&
		strings.TrimSpace(p.Name) != "" &&
		p.Price >= 0 &&
		p.Category != ""
}
