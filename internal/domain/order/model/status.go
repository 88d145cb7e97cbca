package model

// 订单状态机
//
//	PROCESSING → {CONFIRMED, CANCELLED}
//	CONFIRMED  → {DELIVERED, CANCELLED}
//	DELIVERED / CANCELLED 为终态
//
// 支付状态独立且单调：PENDING → PAID（终态）、PENDING → FAILED/CANCELLED（终态）
// 任何离开 PAID 的转移都是非法的，对账事件若暗示回退必须拒绝而非覆盖

var statusTransitions = map[string]map[string]bool{
	StatusProcessing: {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:  {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

var paymentTransitions = map[string]map[string]bool{
	PaymentPending:   {PaymentPaid: true, PaymentFailed: true, PaymentCancelled: true},
	PaymentPaid:      {},
	PaymentFailed:    {},
	PaymentCancelled: {},
}

// CanTransition 订单主状态是否允许流转
func CanTransition(from, to string) bool {
	return statusTransitions[from][to]
}

// PaymentCanTransition 支付状态是否允许流转
func PaymentCanTransition(from, to string) bool {
	return paymentTransitions[from][to]
}

// IsTerminalStatus 订单主状态是否为终态
func IsTerminalStatus(s string) bool {
	return len(statusTransitions[s]) == 0
}

// IsTerminalPayment 支付状态是否为终态
func IsTerminalPayment(s string) bool {
	return len(paymentTransitions[s]) == 0
}

// CanMarkPaid 置为已支付的前置条件，直接从转移表推导：
// 收款把主状态推进到 CONFIRMED、支付状态推进到 PAID，是一个合并原子步骤，
// 两张表都放行才允许
func (o *Order) CanMarkPaid() bool {
	return CanTransition(o.Status, StatusConfirmed) &&
		PaymentCanTransition(o.PaymentStatus, PaymentPaid)
}

// CanCancel 取消的前置条件：两张表都允许流向 CANCELLED（即未发货且未收款）
func (o *Order) CanCancel() bool {
	return CanTransition(o.Status, StatusCancelled) &&
		PaymentCanTransition(o.PaymentStatus, PaymentCancelled)
}
