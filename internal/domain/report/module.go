package report

import (
	"shop_order_payment/internal/domain/report/handler"
	"shop_order_payment/internal/domain/report/repository"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// ReportModule 报表模块
type ReportModule struct{}

func init() {
	registry.Register(&ReportModule{})
}

func (m *ReportModule) Name() string {
	return "report"
}

func (m *ReportModule) Priority() int {
	return 40
}

func (m *ReportModule) Init(ctx *registry.ModuleContext) error {
	// 复用 gorm 底层的连接池
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return err
	}
	db := sqlx.NewDb(sqlDB, "postgres")

	h := handler.NewReportHandler(repository.NewReportRepository(db))
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ReportHandler) {
	g := r.Group("/reports")
	g.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		g.GET("/orders-by-status", h.OrdersByStatus)
		g.GET("/paid-revenue", h.PaidRevenue)
	}
}
