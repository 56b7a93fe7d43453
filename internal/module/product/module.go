package product

import "github.com/gin-gonic/gin"

// ProductModule implements the app.Module interface for the product catalog.
type ProductModule struct {
	handler *ProductHandler
}

// NewModule creates a new ProductModule with the given handler.
// Panics if h is nil.
func NewModule(h *ProductHandler) *ProductModule {
	if h == nil {
		panic("product.NewModule: handler must not be nil")
	}
	return &ProductModule{handler: h}
}

// RegisterRoutes registers the read-only catalog routes.
func (m *ProductModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("", m.handler.Welcome)
	api.GET("/products", m.handler.List)
	api.GET("/products/:id", m.handler.Get)
}
