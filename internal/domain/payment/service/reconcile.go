package service

import (
	"errors"
	"math"
	"time"

	orderModel "shop_order_payment/internal/domain/order/model"
	orderRepo "shop_order_payment/internal/domain/order/repository"
	"shop_order_payment/internal/pkg/worker"
	"shop_order_payment/pkg/errs"
	"shop_order_payment/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reconciler 把渠道侧的支付结果落到订单状态机上
// 验签已经在上游完成，这里只做状态写入；所有写入都是幂等的：
// 重放已生效的事件返回成功且不产生任何变更
type Reconciler struct {
	orders orderRepo.OrderRepository
}

func NewReconciler(orders orderRepo.OrderRepository) *Reconciler {
	return &Reconciler{orders: orders}
}

// ApplyOnce 单次对账写入
// 永久性错误（订单不存在、状态冲突、金额不符）直接返回，不会被重试池消化
func (r *Reconciler) ApplyOnce(task worker.ReconcileTask) error {
	order, err := r.orders.GetByCode(task.OrderCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 订单号只在本地事务提交后才会交给网关，未知订单号是永久错误
			return errs.Newf(errs.KindNotFound, "order %s not found", task.OrderCode)
		}
		return errs.Wrap(errs.KindInternal, "load order for reconcile", err)
	}

	if task.Paid {
		return r.applyPaid(order, task)
	}
	return r.applyFailed(order, task)
}

func (r *Reconciler) applyPaid(order *orderModel.Order, task worker.ReconcileTask) error {
	// 金额以订单为准，渠道回报金额不符说明链路被篡改或配置错误，绝不入账
	if task.Amount > 0 && math.Abs(task.Amount-order.TotalAmount) > 0.005 {
		logger.Log.Error("Reconcile amount mismatch",
			zap.String("order_code", task.OrderCode),
			zap.Float64("order_amount", order.TotalAmount),
			zap.Float64("reported_amount", task.Amount))
		return errs.Newf(errs.KindStateConflict, "amount mismatch for order %s", task.OrderCode)
	}

	affected, err := r.orders.MarkPaid(task.OrderCode, task.ProviderTxID, time.Now())
	if err != nil {
		return errs.Wrap(errs.KindInternal, "mark order paid", err)
	}
	if affected > 0 {
		logger.Log.Info("Order payment confirmed",
			zap.String("order_code", task.OrderCode),
			zap.String("channel", task.Channel),
			zap.String("provider_tx_id", task.ProviderTxID))
		return nil
	}

	// 没写进去：重新读状态，用转移表区分重放、冲突和写入竞争
	current, err := r.orders.GetByCode(task.OrderCode)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "reload order after no-op mark paid", err)
	}
	switch {
	case current.PaymentStatus == orderModel.PaymentPaid:
		// 同一事件重放，成功且无变更
		return nil
	case !current.CanMarkPaid():
		return errs.Newf(errs.KindStateConflict,
			"order %s cannot accept payment in state %s/%s",
			task.OrderCode, current.Status, current.PaymentStatus)
	default:
		// 前置仍满足却没写进去，说明和另一笔写入撞了，交给重试池
		return errs.Newf(errs.KindReconciliationFailed,
			"mark paid raced for order %s", task.OrderCode)
	}
}

func (r *Reconciler) applyFailed(order *orderModel.Order, task worker.ReconcileTask) error {
	if order.PaymentStatus == orderModel.PaymentPaid {
		// 已收款的订单不接受任何回退事件
		return errs.Newf(errs.KindStateConflict,
			"order %s already paid, refusing %s event", task.OrderCode, task.Channel)
	}

	affected, err := r.orders.MarkPaymentFailed(task.OrderCode)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "mark payment failed", err)
	}
	if affected > 0 {
		logger.Log.Info("Order payment failed",
			zap.String("order_code", task.OrderCode),
			zap.String("channel", task.Channel))
		return nil
	}

	current, err := r.orders.GetByCode(task.OrderCode)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "reload order after no-op mark failed", err)
	}
	switch {
	case current.PaymentStatus == orderModel.PaymentPaid:
		return errs.Newf(errs.KindStateConflict,
			"order %s already paid, refusing %s event", task.OrderCode, task.Channel)
	case orderModel.IsTerminalPayment(current.PaymentStatus):
		// 已经是 FAILED/CANCELLED，视作重放
		return nil
	default:
		return errs.Newf(errs.KindReconciliationFailed,
			"mark payment failed raced for order %s", task.OrderCode)
	}
}
