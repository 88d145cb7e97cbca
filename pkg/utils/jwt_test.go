package utils

import (
	"testing"

	"shop_order_payment/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-key-0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 1

	token, expireAt, err := GenerateToken("cust-1", 2)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, expireAt)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "cust-1", claims.CustomerID)
	assert.Equal(t, 2, claims.Role)
	assert.Equal(t, "shop-order", claims.Issuer)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-key-0123456789abcdef"

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-key-0123456789abcdef"
	token, _, err := GenerateToken("cust-1", 1)
	assert.NoError(t, err)

	config.GlobalConfig.JWT.Secret = "a-different-secret-key-0123456789abc"
	_, err = ParseToken(token)
	assert.Error(t, err)
}
