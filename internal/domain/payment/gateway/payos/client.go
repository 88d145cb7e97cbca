package payos

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"shop_order_payment/internal/pkg/config"
	"shop_order_payment/pkg/errs"
	"shop_order_payment/pkg/logger"

	"go.uber.org/zap"
)

// Client 支付网关客户端
type Client struct {
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
	returnURL   string
	cancelURL   string
	httpClient  *http.Client
}

func NewClient(cfg *config.GatewayConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		clientID:    cfg.ClientID,
		apiKey:      cfg.APIKey,
		checksumKey: cfg.ChecksumKey,
		returnURL:   cfg.ReturnURL,
		cancelURL:   cfg.CancelURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Item 账单明细行
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreatePaymentRequest 创建支付请求入参。
// 签名只覆盖 amount/cancelUrl/description/orderCode/returnUrl 五个字段，
// 明细与买家信息不参与签名
type CreatePaymentRequest struct {
	OrderCode    string  `json:"orderCode"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Items        []Item  `json:"items"`
	BuyerName    string  `json:"buyerName,omitempty"`
	BuyerPhone   string  `json:"buyerPhone,omitempty"`
	BuyerAddress string  `json:"buyerAddress,omitempty"`
	ReturnURL    string  `json:"returnUrl"`
	CancelURL    string  `json:"cancelUrl"`
	Signature    string  `json:"signature"`
}

// PaymentRequestData 网关返回的支付单信息
type PaymentRequestData struct {
	PaymentLinkID string  `json:"paymentLinkId"`
	CheckoutURL   string  `json:"checkoutUrl"`
	QRCode        string  `json:"qrCode"`
	OrderCode     string  `json:"orderCode"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
}

type gatewayEnvelope struct {
	Code string              `json:"code"`
	Desc string              `json:"desc"`
	Data *PaymentRequestData `json:"data"`
}

// 网关侧支付单状态
const (
	GatewayStatusPending   = "PENDING"
	GatewayStatusPaid      = "PAID"
	GatewayStatusCancelled = "CANCELLED"
	GatewayStatusExpired   = "EXPIRED"
)

// CreatePayment 创建支付链接；跳转地址和签名由客户端补齐
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentRequestData, error) {
	req.ReturnURL = c.returnURL
	req.CancelURL = c.cancelURL
	req.Signature = Sign(c.checksumKey, formatAmount(req.Amount),
		c.cancelURL, req.Description, req.OrderCode, c.returnURL)
	return c.do(ctx, http.MethodPost, "/payment-requests", req)
}

// GetPayment 查询支付单, 对账以网关应答为准
func (c *Client) GetPayment(ctx context.Context, orderCode string) (*PaymentRequestData, error) {
	return c.do(ctx, http.MethodGet, "/payment-requests/"+orderCode, nil)
}

// CancelPayment 取消支付单
func (c *Client) CancelPayment(ctx context.Context, orderCode string, reason string) (*PaymentRequestData, error) {
	body := map[string]string{"cancellationReason": reason}
	return c.do(ctx, http.MethodPost, "/payment-requests/"+orderCode+"/cancel", body)
}

// VerifyWebhook 校验回调签名
func (c *Client) VerifyWebhook(body []byte, signature string) (*WebhookPayload, error) {
	return VerifyWebhook(c.checksumKey, body, signature)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*PaymentRequestData, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "marshal gateway request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "build gateway request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Warn("payment gateway unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, errs.Wrap(errs.KindGatewayUnavailable, "payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Wrap(errs.KindGatewayUnavailable, "read gateway response", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		logger.Log.Error("payment gateway error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
		return nil, errs.Newf(errs.KindGatewayUnavailable, "gateway returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errs.Newf(errs.KindGatewayRejected, "gateway rejected request: %s", string(raw))
	}

	var envelope gatewayEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errs.Wrap(errs.KindGatewayUnavailable, "decode gateway response", err)
	}
	if envelope.Data == nil {
		return nil, errs.Newf(errs.KindGatewayRejected, "gateway error %s: %s", envelope.Code, envelope.Desc)
	}
	return envelope.Data, nil
}

// formatAmount 金额参与签名时去掉多余的小数零
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
