package strategy

import "context"

// CheckoutItem 结算单行，透传给渠道做账单展示
type CheckoutItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CheckoutBuyer 买家联系信息，取自订单收货地址
type CheckoutBuyer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CheckoutRequest 发起支付所需的订单内容
type CheckoutRequest struct {
	OrderCode   string
	Amount      float64
	Description string
	Items       []CheckoutItem
	Buyer       CheckoutBuyer
}

// CheckoutResult 发起支付后返回给买家的跳转信息
type CheckoutResult struct {
	CheckoutURL       string `json:"checkoutUrl"`
	QRCode            string `json:"qrCode,omitempty"`
	ProviderPaymentID string `json:"providerPaymentId,omitempty"`
}

// Outcome 渠道侧的支付结果
// Terminal 为 false 表示渠道仍在等待买家付款，不触发任何状态写入
type Outcome struct {
	OrderCode    string
	Paid         bool
	Terminal     bool
	Amount       float64
	ProviderTxID string
	RawStatus    string
}

// PaymentStrategy 支付渠道抽象
type PaymentStrategy interface {
	// CreateCheckout 为订单创建支付链接，可用同一订单号重试
	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error)

	// QueryOutcome 向渠道查询支付结果，对账以此为准
	QueryOutcome(ctx context.Context, orderCode string) (*Outcome, error)

	// Cancel 取消渠道侧支付单
	Cancel(ctx context.Context, orderCode string, reason string) error

	// Notify 验签并解析渠道回调；验签失败必须返回 Unauthorized 类错误
	Notify(params interface{}) (*Outcome, error)
}
