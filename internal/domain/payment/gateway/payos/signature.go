package payos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"shop_order_payment/pkg/errs"
)

// Sign 对支付请求参数签名
// 参与签名的字段按字母序拼接: amount, cancelUrl, description, orderCode, returnUrl
func Sign(checksumKey string, amount string, cancelURL, description, orderCode, returnURL string) string {
	data := fmt.Sprintf("amount=%s&cancelUrl=%s&description=%s&orderCode=%s&returnUrl=%s",
		amount, cancelURL, description, orderCode, returnURL)
	return signRaw(checksumKey, []byte(data))
}

func signRaw(checksumKey string, data []byte) string {
	mac := hmac.New(sha256.New, []byte(checksumKey))
	mac.Write(data)
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// WebhookPayload 回调通知内容
type WebhookPayload struct {
	OrderCode     string  `json:"orderCode"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

// VerifyWebhook 校验回调签名并解析通知体
// 签名覆盖原始报文字节, 任何改动都会导致校验失败
func VerifyWebhook(checksumKey string, body []byte, signature string) (*WebhookPayload, error) {
	if signature == "" {
		return nil, errs.New(errs.KindUnauthorized, "missing webhook signature")
	}
	expected := signRaw(checksumKey, body)
	if !hmac.Equal([]byte(expected), []byte(strings.ToUpper(signature))) {
		return nil, errs.New(errs.KindUnauthorized, "webhook signature mismatch")
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errs.Wrap(errs.KindValidation, "invalid webhook body", err)
	}
	if payload.OrderCode == "" || payload.Status == "" {
		return nil, errs.New(errs.KindValidation, "webhook body missing orderCode or status")
	}
	return &payload, nil
}
