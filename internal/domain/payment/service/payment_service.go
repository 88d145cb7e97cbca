package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	customerRepo "shop_order_payment/internal/domain/customer/repository"
	orderModel "shop_order_payment/internal/domain/order/model"
	orderRepo "shop_order_payment/internal/domain/order/repository"
	"shop_order_payment/internal/domain/payment/strategy"
	"shop_order_payment/internal/pkg/worker"
	"shop_order_payment/pkg/errs"
	"shop_order_payment/pkg/logger"
	"shop_order_payment/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 结算链接缓存：同一订单重复取链接不再打网关
const (
	checkoutCachePrefix = "checkout:"
	checkoutCacheTTL    = 10 * time.Minute
)

// ReturnStatus 跳转页展示用的订单状态摘要。
// 跳转入口不鉴权，任何人都能拿着订单号来问，所以只回状态，绝不回订单内容
type ReturnStatus struct {
	OrderCode     string `json:"orderCode"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// PaymentService 支付服务接口
type PaymentService interface {
	// RequestCheckout 为已有订单取结算链接，按订单号幂等可重试
	RequestCheckout(ctx context.Context, customerID, orderCode string) (*strategy.CheckoutResult, error)

	// HandleNotify 处理渠道异步回调：验签 → 对账写入
	HandleNotify(channel string, params interface{}) error

	// ConfirmFromReturn 买家从收银台跳回后以服务端查询为准确认结果。
	// 跳转参数不可信，只有渠道应答才能驱动状态机
	ConfirmFromReturn(ctx context.Context, orderCode string) (*ReturnStatus, error)

	// ConfirmBankTransfer 运营人工确认银行转账到账
	ConfirmBankTransfer(orderCode, providerTxID string) (*orderModel.Order, error)

	// CancelOrder 取消未支付订单，网关侧支付单尽力关闭
	CancelOrder(ctx context.Context, customerID, orderCode string, isAdmin bool) error

	RegisterStrategy(channel string, st strategy.PaymentStrategy)
}

type paymentService struct {
	orders     orderRepo.OrderRepository
	customers  customerRepo.CustomerRepository
	reconciler *Reconciler
	pool       *worker.Pool
	rdb        *redis.Client
	strategies map[string]strategy.PaymentStrategy
}

func NewPaymentService(orders orderRepo.OrderRepository, customers customerRepo.CustomerRepository,
	reconciler *Reconciler, pool *worker.Pool, rdb *redis.Client) PaymentService {
	return &paymentService{
		orders:     orders,
		customers:  customers,
		reconciler: reconciler,
		pool:       pool,
		rdb:        rdb,
		strategies: make(map[string]strategy.PaymentStrategy),
	}
}

func (s *paymentService) RegisterStrategy(channel string, st strategy.PaymentStrategy) {
	s.strategies[channel] = st
}

func (s *paymentService) RequestCheckout(ctx context.Context, customerID, orderCode string) (*strategy.CheckoutResult, error) {
	order, err := s.loadOwnedOrder(customerID, orderCode, false)
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod == orderModel.MethodBankTransfer {
		return nil, errs.New(errs.KindInvalidState, "bank transfer orders have no checkout link")
	}
	if !order.CanMarkPaid() {
		return nil, errs.Newf(errs.KindInvalidState,
			"order %s is not awaiting payment", orderCode)
	}

	st, ok := s.strategies[order.PaymentMethod]
	if !ok {
		return nil, errs.Newf(errs.KindInvalidState, "payment channel %s unavailable", order.PaymentMethod)
	}

	if cached := s.cachedCheckout(ctx, orderCode); cached != nil {
		return cached, nil
	}

	req, err := s.buildCheckoutRequest(order)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := st.CreateCheckout(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = errs.KindOf(err).String()
	}
	metrics.GetGlobalCollector().GatewayRequest(order.PaymentMethod, outcome, time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}

	s.cacheCheckout(ctx, orderCode, result)
	return result, nil
}

// buildCheckoutRequest 渠道要求请求携带账单明细和买家联系方式，
// 明细取订单行快照，联系方式取订单收货地址
func (s *paymentService) buildCheckoutRequest(order *orderModel.Order) (*strategy.CheckoutRequest, error) {
	addr, err := s.customers.GetAddress(order.AddressID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "load order address", err)
	}

	items := make([]strategy.CheckoutItem, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, strategy.CheckoutItem{
			Name:     l.ProductName,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
		})
	}

	return &strategy.CheckoutRequest{
		OrderCode:   order.OrderCode,
		Amount:      order.TotalAmount,
		Description: fmt.Sprintf("Order %s", order.OrderCode),
		Items:       items,
		Buyer: strategy.CheckoutBuyer{
			Name:    addr.Receiver,
			Phone:   addr.Phone,
			Address: strings.TrimSpace(addr.Line + " " + addr.City),
		},
	}, nil
}

func (s *paymentService) HandleNotify(channel string, params interface{}) error {
	st, ok := s.strategies[channel]
	if !ok {
		return errs.Newf(errs.KindValidation, "unsupported payment channel %s", channel)
	}

	out, err := st.Notify(params)
	if err != nil {
		// 验签失败是永久错误：拒绝整个回调，绝不进重试
		metrics.GetGlobalCollector().Webhook(channel, "rejected")
		return err
	}
	if !out.Terminal {
		// 渠道仍在等待买家付款，无事可做
		metrics.GetGlobalCollector().Webhook(channel, "pending")
		return nil
	}

	err = s.apply(channel, out)
	if err != nil {
		metrics.GetGlobalCollector().Webhook(channel, "failed")
		return err
	}
	metrics.GetGlobalCollector().Webhook(channel, "applied")
	return nil
}

func (s *paymentService) ConfirmFromReturn(ctx context.Context, orderCode string) (*ReturnStatus, error) {
	order, err := s.loadOrder(orderCode)
	if err != nil {
		return nil, err
	}

	st, ok := s.strategies[order.PaymentMethod]
	if !ok {
		return nil, errs.Newf(errs.KindInvalidState, "payment channel %s unavailable", order.PaymentMethod)
	}

	out, err := st.QueryOutcome(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	if out.Terminal {
		if err := s.apply(order.PaymentMethod, out); err != nil {
			return nil, err
		}
	}

	current, err := s.loadOrder(orderCode)
	if err != nil {
		return nil, err
	}
	return &ReturnStatus{
		OrderCode:     current.OrderCode,
		Status:        current.Status,
		PaymentStatus: current.PaymentStatus,
	}, nil
}

func (s *paymentService) ConfirmBankTransfer(orderCode, providerTxID string) (*orderModel.Order, error) {
	order, err := s.loadOrder(orderCode)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != orderModel.MethodBankTransfer {
		return nil, errs.Newf(errs.KindInvalidState,
			"order %s is not a bank transfer order", orderCode)
	}

	err = s.reconciler.ApplyOnce(worker.ReconcileTask{
		Channel:      orderModel.MethodBankTransfer,
		OrderCode:    orderCode,
		Paid:         true,
		Amount:       order.TotalAmount,
		ProviderTxID: providerTxID,
	})
	if err != nil {
		return nil, err
	}
	return s.loadOrder(orderCode)
}

func (s *paymentService) CancelOrder(ctx context.Context, customerID, orderCode string, isAdmin bool) error {
	order, err := s.loadOwnedOrder(customerID, orderCode, isAdmin)
	if err != nil {
		return err
	}

	affected, err := s.orders.Cancel(orderCode)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "cancel order", err)
	}
	if affected == 0 {
		return errs.Newf(errs.KindStateConflict,
			"order %s cannot be cancelled in state %s/%s",
			orderCode, order.Status, order.PaymentStatus)
	}

	// 网关侧支付单尽力关闭；失败只记日志，本地状态已经是终态
	if st, ok := s.strategies[order.PaymentMethod]; ok {
		if err := st.Cancel(ctx, orderCode, "customer cancelled"); err != nil {
			logger.Log.Warn("Gateway-side cancel failed",
				zap.String("order_code", orderCode),
				zap.String("channel", order.PaymentMethod),
				zap.Error(err))
		}
	}

	s.rdb.Del(ctx, checkoutCachePrefix+orderCode)
	return nil
}

// apply 同步对账一次；瞬时存储故障转给重试池异步消化
func (s *paymentService) apply(channel string, out *strategy.Outcome) error {
	task := worker.ReconcileTask{
		Channel:      channel,
		OrderCode:    out.OrderCode,
		Paid:         out.Paid,
		Amount:       out.Amount,
		ProviderTxID: out.ProviderTxID,
	}
	err := s.reconciler.ApplyOnce(task)
	if err == nil {
		return nil
	}
	if worker.Retryable(err) {
		logger.Log.Warn("Reconcile deferred to retry pool",
			zap.String("order_code", out.OrderCode), zap.Error(err))
		s.pool.AddTask(task)
		return nil
	}
	return err
}

func (s *paymentService) loadOrder(orderCode string) (*orderModel.Order, error) {
	order, err := s.orders.GetByCode(orderCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "order %s not found", orderCode)
		}
		return nil, errs.Wrap(errs.KindInternal, "load order", err)
	}
	return order, nil
}

func (s *paymentService) loadOwnedOrder(customerID, orderCode string, isAdmin bool) (*orderModel.Order, error) {
	order, err := s.loadOrder(orderCode)
	if err != nil {
		return nil, err
	}
	// 非本人订单对外表现为不存在，避免订单号探测
	if !isAdmin && order.CustomerID != customerID {
		return nil, errs.Newf(errs.KindNotFound, "order %s not found", orderCode)
	}
	return order, nil
}

func (s *paymentService) cachedCheckout(ctx context.Context, orderCode string) *strategy.CheckoutResult {
	raw, err := s.rdb.Get(ctx, checkoutCachePrefix+orderCode).Bytes()
	if err != nil {
		return nil
	}
	var result strategy.CheckoutResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	return &result
}

func (s *paymentService) cacheCheckout(ctx context.Context, orderCode string, result *strategy.CheckoutResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, checkoutCachePrefix+orderCode, raw, checkoutCacheTTL).Err(); err != nil {
		logger.Log.Warn("Checkout link cache write failed",
			zap.String("order_code", orderCode), zap.Error(err))
	}
}
