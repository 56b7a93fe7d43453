package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/minimarket/internal/domain"
	"github.com/simp-lee/minimarket/internal/pkg"
)

// WelcomeMessage is the body of GET /api.
const WelcomeMessage = "¡Bienvenido a la api del mini-market!"

// ProductHandler handles REST API requests for the product resource.
type ProductHandler struct {
	svc domain.ProductService
}

// NewProductHandler creates a new ProductHandler with the given service.
func NewProductHandler(svc domain.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Welcome handles GET /api.
func (h *ProductHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c)

	result, err := h.svc.ListProducts(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, newPageResponse(result))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, found, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if !found {
		pkg.Error(c, domain.ErrProductNotFound)
		return
	}

	pkg.Success(c, NewProductResponse(product))
}
