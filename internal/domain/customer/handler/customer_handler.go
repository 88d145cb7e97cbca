package handler

import (
	"net/http"

	"shop_order_payment/internal/domain/customer/service"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// GetProfile 当前客户信息
// @Summary 当前客户信息
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Response
// @Router /customers/me [get]
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	customer, err := h.service.GetProfile(middleware.CustomerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, customer)
}

// ListAddresses 收货地址列表
// @Summary 收货地址列表
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Response
// @Router /customers/me/addresses [get]
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.service.ListAddresses(middleware.CustomerID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, addresses)
}

type CreateAddressInput struct {
	Receiver string `json:"receiver" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Line     string `json:"line" binding:"required"`
	City     string `json:"city"`
}

// CreateAddress 新增收货地址
// @Summary 新增收货地址
// @Tags Customer
// @Accept json
// @Produce json
// @Param input body CreateAddressInput true "Address"
// @Success 200 {object} response.Response
// @Router /customers/me/addresses [post]
func (h *CustomerHandler) CreateAddress(c *gin.Context) {
	var input CreateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	address, err := h.service.CreateAddress(middleware.CustomerID(c), input.Receiver, input.Phone, input.Line, input.City)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, address)
}
