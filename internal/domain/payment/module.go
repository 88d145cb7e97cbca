package payment

import (
	customerRepo "shop_order_payment/internal/domain/customer/repository"
	orderModel "shop_order_payment/internal/domain/order/model"
	orderRepo "shop_order_payment/internal/domain/order/repository"
	"shop_order_payment/internal/domain/payment/gateway/payos"
	"shop_order_payment/internal/domain/payment/handler"
	"shop_order_payment/internal/domain/payment/service"
	"shop_order_payment/internal/domain/payment/strategy"
	"shop_order_payment/internal/pkg/config"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/internal/pkg/registry"
	"shop_order_payment/internal/pkg/worker"
	"shop_order_payment/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 支付模块依赖订单模块
	return 30
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	orders := orderRepo.NewOrderRepository(ctx.DB)
	customers := customerRepo.NewCustomerRepository(ctx.DB)
	reconciler := service.NewReconciler(orders)

	pool := worker.NewPool(reconciler, 4, 256)
	pool.Start()

	pService := service.NewPaymentService(orders, customers, reconciler, pool, ctx.Redis)

	// 注册支付渠道
	if config.GlobalConfig.Gateway.BaseURL != "" {
		client := payos.NewClient(&config.GlobalConfig.Gateway)
		pService.RegisterStrategy(orderModel.MethodGateway, strategy.NewPayosStrategy(client))
	}
	if config.GlobalConfig.Alipay.AppID != "" {
		alipayStrategy, err := strategy.NewAlipayStrategy()
		if err != nil {
			logger.Log.Error("Failed to init Alipay strategy: " + err.Error())
		} else {
			pService.RegisterStrategy(orderModel.MethodAlipay, alipayStrategy)
		}
	}

	pHandler := handler.NewPaymentHandler(pService)
	setupRoutes(ctx.Router, pHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/payments")

	// 渠道回调与跳转 (无需鉴权，但需验签 / 服务端反查)
	g.POST("/webhook/payos", h.GatewayWebhook)
	g.POST("/notify/alipay", h.AlipayNotify)
	g.GET("/return", h.PaymentReturn)

	// 需要鉴权的接口
	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/:code/checkout", h.Checkout)
		auth.POST("/:code/cancel", h.CancelOrder)
	}

	admin := auth.Group("")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/:code/confirm-transfer", h.ConfirmBankTransfer)
	}
}
