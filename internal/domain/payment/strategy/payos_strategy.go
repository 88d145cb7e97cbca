package strategy

import (
	"context"

	"shop_order_payment/internal/domain/payment/gateway/payos"
	"shop_order_payment/pkg/errs"
)

// PayosStrategy 托管收银台渠道
type PayosStrategy struct {
	client *payos.Client
}

func NewPayosStrategy(client *payos.Client) *PayosStrategy {
	return &PayosStrategy{client: client}
}

func (s *PayosStrategy) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	items := make([]payos.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, payos.Item{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	data, err := s.client.CreatePayment(ctx, payos.CreatePaymentRequest{
		OrderCode:    req.OrderCode,
		Amount:       req.Amount,
		Description:  req.Description,
		Items:        items,
		BuyerName:    req.Buyer.Name,
		BuyerPhone:   req.Buyer.Phone,
		BuyerAddress: req.Buyer.Address,
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{
		CheckoutURL:       data.CheckoutURL,
		QRCode:            data.QRCode,
		ProviderPaymentID: data.PaymentLinkID,
	}, nil
}

func (s *PayosStrategy) QueryOutcome(ctx context.Context, orderCode string) (*Outcome, error) {
	data, err := s.client.GetPayment(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	return outcomeFromGateway(orderCode, data.Status, data.Amount, data.TransactionID), nil
}

func (s *PayosStrategy) Cancel(ctx context.Context, orderCode string, reason string) error {
	_, err := s.client.CancelPayment(ctx, orderCode, reason)
	return err
}

// Notify 验签回调；params 是 webhookParams{Body, Signature}
func (s *PayosStrategy) Notify(params interface{}) (*Outcome, error) {
	in, ok := params.(WebhookParams)
	if !ok {
		return nil, errs.New(errs.KindInternal, "payos notify expects WebhookParams")
	}
	payload, err := s.client.VerifyWebhook(in.Body, in.Signature)
	if err != nil {
		return nil, err
	}
	return outcomeFromGateway(payload.OrderCode, payload.Status, payload.Amount, payload.TransactionID), nil
}

// WebhookParams 网关回调的原始报文与签名头
type WebhookParams struct {
	Body      []byte
	Signature string
}

func outcomeFromGateway(orderCode, status string, amount float64, txID string) *Outcome {
	out := &Outcome{
		OrderCode:    orderCode,
		Amount:       amount,
		ProviderTxID: txID,
		RawStatus:    status,
	}
	switch status {
	case payos.GatewayStatusPaid:
		out.Paid = true
		out.Terminal = true
	case payos.GatewayStatusCancelled, payos.GatewayStatusExpired:
		out.Terminal = true
	}
	return out
}

var _ PaymentStrategy = (*PayosStrategy)(nil)
