package payos

import (
	"testing"

	"shop_order_payment/pkg/errs"

	"github.com/stretchr/testify/assert"
)

const testChecksumKey = "test-checksum-key"

func TestSign(t *testing.T) {
	// 固定向量：与网关侧离线计算结果一致
	got := Sign(testChecksumKey, "50000", "a", "x", "123", "b")
	assert.Equal(t, "864D44B5C421E055B87827B4F6AE2F0653333C80207E999B09BBA5AB69FDD62C", got)
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"orderCode":"ORD00042","status":"PAID","amount":25.00,"transactionId":"tx-777"}`)
	validSig := "B60051328FEC538354E69EE39F7F4D13F2B9F9065068DD313B128EF3C14A1BD4"

	t.Run("Valid signature parses payload", func(t *testing.T) {
		payload, err := VerifyWebhook(testChecksumKey, body, validSig)

		assert.NoError(t, err)
		assert.Equal(t, "ORD00042", payload.OrderCode)
		assert.Equal(t, GatewayStatusPaid, payload.Status)
		assert.Equal(t, 25.00, payload.Amount)
		assert.Equal(t, "tx-777", payload.TransactionID)
	})

	t.Run("Lowercase signature is accepted", func(t *testing.T) {
		payload, err := VerifyWebhook(testChecksumKey, body, "b60051328fec538354e69ee39f7f4d13f2b9f9065068dd313b128ef3c14a1bd4")

		assert.NoError(t, err)
		assert.Equal(t, "ORD00042", payload.OrderCode)
	})

	t.Run("Altered body with original signature is rejected", func(t *testing.T) {
		tampered := []byte(`{"orderCode":"ORD00042","status":"PAID","amount":9999.00,"transactionId":"tx-777"}`)

		payload, err := VerifyWebhook(testChecksumKey, tampered, validSig)

		assert.Error(t, err)
		assert.Nil(t, payload)
		assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	})

	t.Run("Missing signature is rejected", func(t *testing.T) {
		_, err := VerifyWebhook(testChecksumKey, body, "")

		assert.Error(t, err)
		assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	})

	t.Run("Wrong key is rejected", func(t *testing.T) {
		_, err := VerifyWebhook("another-key", body, validSig)

		assert.Error(t, err)
		assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	})

	t.Run("Body missing order code is rejected", func(t *testing.T) {
		empty := []byte(`{"status":"PAID"}`)
		sig := signRaw(testChecksumKey, empty)

		_, err := VerifyWebhook(testChecksumKey, empty, sig)

		assert.Error(t, err)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})
}
