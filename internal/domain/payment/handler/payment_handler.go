package handler

import (
	"net/http"

	customerModel "shop_order_payment/internal/domain/customer/model"
	"shop_order_payment/internal/domain/order/model"
	"shop_order_payment/internal/domain/payment/service"
	"shop_order_payment/internal/domain/payment/strategy"
	"shop_order_payment/internal/pkg/middleware"
	"shop_order_payment/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// Checkout 获取订单结算链接
// @Summary 获取结算链接
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Param code path string true "Order Code"
// @Success 200 {object} response.Response{data=strategy.CheckoutResult}
// @Router /payments/{code}/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	result, err := h.service.RequestCheckout(c.Request.Context(),
		middleware.CustomerID(c), c.Param("code"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// GatewayWebhook 网关异步回调
// 验签覆盖原始报文，必须在任何解析之前拿到原始字节
// @Summary 支付网关回调
// @Tags Payment
// @Router /payments/webhook/payos [post]
func (h *PaymentHandler) GatewayWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrWebhookSignature, "cannot read webhook body")
		return
	}

	err = h.service.HandleNotify(model.MethodGateway, strategy.WebhookParams{
		Body:      body,
		Signature: c.GetHeader("x-signature"),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// AlipayNotify 支付宝异步通知
// @Summary 支付宝回调
// @Tags Payment
// @Router /payments/notify/alipay [post]
func (h *PaymentHandler) AlipayNotify(c *gin.Context) {
	// 支付宝回调是 POST Form 格式；解析失败回 fail 让支付宝重投
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusOK, "fail")
		return
	}
	if err := h.service.HandleNotify(model.MethodAlipay, c.Request.Form); err != nil {
		c.String(http.StatusOK, "fail") // 告诉支付宝处理失败，它会重试
		return
	}
	c.String(http.StatusOK, "success")
}

// PaymentReturn 买家从收银台跳回
// 跳转参数一律不可信，结果以服务端向渠道查询为准；
// 入口不鉴权，只回状态摘要，不回订单内容
// @Summary 支付完成跳转
// @Tags Payment
// @Produce json
// @Param orderCode query string true "Order Code"
// @Success 200 {object} response.Response{data=service.ReturnStatus}
// @Router /payments/return [get]
func (h *PaymentHandler) PaymentReturn(c *gin.Context) {
	orderCode := c.Query("orderCode")
	if orderCode == "" {
		response.Error(c, http.StatusBadRequest, response.ErrOrderValidation, "orderCode is required")
		return
	}

	status, err := h.service.ConfirmFromReturn(c.Request.Context(), orderCode)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, status)
}

type ConfirmTransferInput struct {
	ProviderTxID string `json:"providerTxId" binding:"required"`
}

// ConfirmBankTransfer 人工确认银行转账到账
// @Summary 确认银行转账
// @Tags Payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Order Code"
// @Param input body ConfirmTransferInput true "Transfer reference"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /payments/{code}/confirm-transfer [post]
func (h *PaymentHandler) ConfirmBankTransfer(c *gin.Context) {
	var input ConfirmTransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrOrderValidation, err.Error())
		return
	}

	order, err := h.service.ConfirmBankTransfer(c.Param("code"), input.ProviderTxID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消未支付订单
// @Summary 取消订单
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Param code path string true "Order Code"
// @Success 200 {object} response.Response
// @Router /payments/{code}/cancel [post]
func (h *PaymentHandler) CancelOrder(c *gin.Context) {
	role, _ := c.Get("role")
	isAdmin := role == customerModel.RoleAdmin
	err := h.service.CancelOrder(c.Request.Context(),
		middleware.CustomerID(c), c.Param("code"), isAdmin)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
