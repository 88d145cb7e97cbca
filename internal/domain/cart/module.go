package cart

import (
	"shop_order_payment/internal/domain/cart/handler"
	"shop_order_payment/internal/domain/cart/repository"
	"shop_order_payment/internal/domain/cart/service"
	catalogRepo "shop_order_payment/internal/domain/catalog/repository"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CartModule 购物车模块
type CartModule struct{}

func init() {
	registry.Register(&CartModule{})
}

func (m *CartModule) Name() string {
	return "cart"
}

func (m *CartModule) Priority() int {
	return 10
}

func (m *CartModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCartRepository(ctx.DB)
	catalog := catalogRepo.NewCatalogRepository(ctx.DB)
	svc := service.NewCartService(repo, catalog)
	h := handler.NewCartHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CartHandler) {
	g := r.Group("/cart")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.GetCart)
		g.POST("/lines", h.AddLine)
		g.PUT("/lines/:id", h.UpdateLine)
		g.DELETE("/lines/:id", h.RemoveLine)
	}
}
