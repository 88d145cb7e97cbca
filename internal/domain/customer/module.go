package customer

import (
	"shop_order_payment/internal/domain/customer/handler"
	"shop_order_payment/internal/domain/customer/repository"
	"shop_order_payment/internal/domain/customer/service"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CustomerModule 客户模块
type CustomerModule struct{}

func init() {
	registry.Register(&CustomerModule{})
}

func (m *CustomerModule) Name() string {
	return "customer"
}

func (m *CustomerModule) Priority() int {
	// 客户模块优先级最高，订单/支付模块都依赖它
	return 1
}

func (m *CustomerModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCustomerRepository(ctx.DB)
	svc := service.NewCustomerService(repo)
	h := handler.NewCustomerHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CustomerHandler) {
	g := r.Group("/customers")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("/me", h.GetProfile)
		g.GET("/me/addresses", h.ListAddresses)
		g.POST("/me/addresses", h.CreateAddress)
	}
}
