package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusProcessing, StatusConfirmed, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusProcessing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestPaymentCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPending, PaymentCancelled, true},
		// 任何离开 PAID 的转移都非法
		{PaymentPaid, PaymentPending, false},
		{PaymentPaid, PaymentFailed, false},
		{PaymentPaid, PaymentCancelled, false},
		{PaymentFailed, PaymentPaid, false},
		{PaymentCancelled, PaymentPaid, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, PaymentCanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, IsTerminalStatus(StatusProcessing))
	assert.False(t, IsTerminalStatus(StatusConfirmed))
	assert.True(t, IsTerminalStatus(StatusDelivered))
	assert.True(t, IsTerminalStatus(StatusCancelled))

	assert.False(t, IsTerminalPayment(PaymentPending))
	assert.True(t, IsTerminalPayment(PaymentPaid))
	assert.True(t, IsTerminalPayment(PaymentFailed))
	assert.True(t, IsTerminalPayment(PaymentCancelled))
}

func TestCanMarkPaid(t *testing.T) {
	assert.True(t, (&Order{Status: StatusProcessing, PaymentStatus: PaymentPending}).CanMarkPaid())
	assert.False(t, (&Order{Status: StatusCancelled, PaymentStatus: PaymentCancelled}).CanMarkPaid())
	assert.False(t, (&Order{Status: StatusConfirmed, PaymentStatus: PaymentPaid}).CanMarkPaid())
}

// 前置判定必须与转移表一致：表允许 status→CONFIRMED 且 payment→PAID 才可收款
func TestCanMarkPaidFollowsTransitionTables(t *testing.T) {
	statuses := []string{StatusProcessing, StatusConfirmed, StatusDelivered, StatusCancelled}
	payments := []string{PaymentPending, PaymentPaid, PaymentFailed, PaymentCancelled}

	for _, s := range statuses {
		for _, p := range payments {
			o := &Order{Status: s, PaymentStatus: p}
			want := CanTransition(s, StatusConfirmed) && PaymentCanTransition(p, PaymentPaid)
			assert.Equal(t, want, o.CanMarkPaid(), "%s/%s", s, p)
		}
	}
}

func TestCanCancel(t *testing.T) {
	assert.True(t, (&Order{Status: StatusProcessing, PaymentStatus: PaymentPending}).CanCancel())
	assert.False(t, (&Order{Status: StatusConfirmed, PaymentStatus: PaymentPaid}).CanCancel())
	assert.False(t, (&Order{Status: StatusDelivered, PaymentStatus: PaymentPaid}).CanCancel())
}
