package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 客户模块错误 100xx
	ErrCustomerNotFound = 10001
	ErrCustomerInactive = 10002
	ErrTokenInvalid     = 10003
	ErrNoPermission     = 10004

	// 购物车模块错误 200xx
	ErrCartLineNotFound = 20001
	ErrCartConverted    = 20002

	// 订单模块错误 300xx
	ErrOrderNotFound   = 30001
	ErrOrderState      = 30002
	ErrOrderValidation = 30003

	// 支付模块错误 400xx
	ErrGatewayUnavailable = 40001
	ErrGatewayRejected    = 40002
	ErrWebhookSignature   = 40003
	ErrPaymentState       = 40004
	ErrReconcileFailed    = 40005

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
