package response

import (
	"net/http"

	"shop_order_payment/pkg/errs"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// FromError 按错误类别映射 HTTP 状态码与业务码
// 对外只暴露安全文案，内部细节不出边界
func FromError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	msg := errs.MessageOf(err)

	switch kind {
	case errs.KindValidation:
		Error(c, http.StatusBadRequest, ErrOrderValidation, msg)
	case errs.KindNotFound:
		Error(c, http.StatusNotFound, ErrOrderNotFound, msg)
	case errs.KindInvalidState:
		Error(c, http.StatusConflict, ErrOrderState, msg)
	case errs.KindGatewayUnavailable:
		Error(c, http.StatusBadGateway, ErrGatewayUnavailable, msg)
	case errs.KindGatewayRejected:
		Error(c, http.StatusBadGateway, ErrGatewayRejected, msg)
	case errs.KindUnauthorized:
		Error(c, http.StatusUnauthorized, ErrWebhookSignature, msg)
	case errs.KindStateConflict:
		Error(c, http.StatusConflict, ErrPaymentState, msg)
	case errs.KindReconciliationFailed:
		Error(c, http.StatusInternalServerError, ErrReconcileFailed, msg)
	default:
		Error(c, http.StatusInternalServerError, ErrServerInternal, msg)
	}
}
