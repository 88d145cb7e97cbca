package order

import (
	cartRepo "shop_order_payment/internal/domain/cart/repository"
	cartService "shop_order_payment/internal/domain/cart/service"
	catalogRepo "shop_order_payment/internal/domain/catalog/repository"
	customerRepo "shop_order_payment/internal/domain/customer/repository"
	customerService "shop_order_payment/internal/domain/customer/service"
	"shop_order_payment/internal/domain/order/handler"
	"shop_order_payment/internal/domain/order/repository"
	"shop_order_payment/internal/domain/order/service"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 依赖 customer 与 cart 模块
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	catalog := catalogRepo.NewCatalogRepository(ctx.DB)
	carts := cartService.NewCartService(cartRepo.NewCartRepository(ctx.DB), catalog)
	customers := customerService.NewCustomerService(customerRepo.NewCustomerRepository(ctx.DB))

	repo := repository.NewOrderRepository(ctx.DB)
	svc := service.NewOrderService(repo, carts, customers, catalog)
	h := handler.NewOrderHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("", h.CreateOrder)
		g.GET("", h.ListOrders)
		g.GET("/:code", h.GetOrder)
	}

	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/:code/deliver", h.MarkDelivered)
	}
}
