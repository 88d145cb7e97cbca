package catalog

import (
	"shop_order_payment/internal/domain/catalog/handler"
	"shop_order_payment/internal/domain/catalog/repository"
	"shop_order_payment/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CatalogModule 目录模块（只读）
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 5
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	h := handler.NewCatalogHandler(repository.NewCatalogRepository(ctx.DB))
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler) {
	r.GET("/products", h.ListProducts)
	r.GET("/branches", h.ListBranches)
}
