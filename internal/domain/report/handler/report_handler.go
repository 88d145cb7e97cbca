package handler

import (
	"net/http"
	"strconv"
	"time"

	"shop_order_payment/internal/domain/report/repository"
	"shop_order_payment/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	repo repository.ReportRepository
}

func NewReportHandler(repo repository.ReportRepository) *ReportHandler {
	return &ReportHandler{repo: repo}
}

// OrdersByStatus 各状态订单数
// @Summary 订单状态汇总
// @Tags Report
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]repository.StatusCount}
// @Router /reports/orders-by-status [get]
func (h *ReportHandler) OrdersByStatus(c *gin.Context) {
	rows, err := h.repo.OrdersByStatus()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "report query failed")
		return
	}
	response.Success(c, rows)
}

// PaidRevenue 按日已收款汇总
// @Summary 收款日报
// @Tags Report
// @Produce json
// @Security BearerAuth
// @Param days query int false "统计最近多少天" default(30)
// @Success 200 {object} response.Response{data=[]repository.DailyRevenue}
// @Router /reports/paid-revenue [get]
func (h *ReportHandler) PaidRevenue(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "days must be between 1 and 365")
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	rows, err := h.repo.PaidRevenueByDay(since)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "report query failed")
		return
	}
	response.Success(c, rows)
}
