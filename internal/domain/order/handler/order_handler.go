package handler

import (
	"net/http"
	"strconv"

	"shop_order_payment/internal/domain/customer/model"
	"shop_order_payment/internal/domain/order/service"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type CreateOrderInput struct {
	AddressID     string   `json:"addressId" binding:"required,uuid"`
	BranchID      string   `json:"branchId" binding:"required,uuid"`
	PaymentMethod string   `json:"paymentMethod" binding:"required,oneof=payos alipay bank_transfer"`
	CartLineIDs   []string `json:"cartLineIds" binding:"required,min=1,dive,uuid"`
}

// CreateOrder 创建订单
// @Summary 创建订单
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Order Info"
// @Success 200 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CreateOrder(
		middleware.CustomerID(c),
		input.AddressID,
		input.BranchID,
		input.PaymentMethod,
		input.CartLineIDs,
	)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder 按订单号查询
// @Summary 按订单号查询
// @Tags Order
// @Produce json
// @Param code path string true "Order Code"
// @Success 200 {object} response.Response
// @Router /orders/{code} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	role, _ := c.Get("role")
	isAdmin := role == model.RoleAdmin

	order, err := h.service.GetByCode(middleware.CustomerID(c), c.Param("code"), isAdmin)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 我的订单列表
// @Summary 我的订单列表
// @Tags Order
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, total, err := h.service.ListMine(middleware.CustomerID(c), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"list": orders, "total": total})
}

// MarkDelivered 标记送达（管理员）
// @Summary 标记送达
// @Tags Order
// @Produce json
// @Param code path string true "Order Code"
// @Success 200 {object} response.Response
// @Router /orders/{code}/deliver [post]
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	if err := h.service.MarkDelivered(c.Param("code")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
