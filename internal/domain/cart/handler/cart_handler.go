package handler

import (
	"net/http"

	"shop_order_payment/internal/domain/cart/service"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/pkg/response"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

// GetCart 查看购物车
// @Summary 查看购物车
// @Tags Cart
// @Produce json
// @Success 200 {object} response.Response
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.service.GetCart(middleware.CustomerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, cart)
}

type AddLineInput struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// AddLine 加入购物车
// @Summary 加入购物车
// @Tags Cart
// @Accept json
// @Produce json
// @Param input body AddLineInput true "Line"
// @Success 200 {object} response.Response
// @Router /cart/lines [post]
func (h *CartHandler) AddLine(c *gin.Context) {
	var input AddLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	line, err := h.service.AddLine(middleware.CustomerID(c), input.ProductID, input.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, line)
}

type UpdateLineInput struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// UpdateLine 修改行数量
// @Summary 修改行数量
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Line ID"
// @Param input body UpdateLineInput true "Quantity"
// @Success 200 {object} response.Response
// @Router /cart/lines/{id} [put]
func (h *CartHandler) UpdateLine(c *gin.Context) {
	var input UpdateLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	line, err := h.service.UpdateQuantity(middleware.CustomerID(c), c.Param("id"), input.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, line)
}

// RemoveLine 删除行
// @Summary 删除行
// @Tags Cart
// @Produce json
// @Param id path string true "Line ID"
// @Success 200 {object} response.Response
// @Router /cart/lines/{id} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	if err := h.service.RemoveLine(middleware.CustomerID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
