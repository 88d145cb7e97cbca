package service

import (
	"errors"
	"time"

	cartService "shop_order_payment/internal/domain/cart/service"
	catalogRepo "shop_order_payment/internal/domain/catalog/repository"
	customerService "shop_order_payment/internal/domain/customer/service"
	"shop_order_payment/internal/domain/order/model"
	"shop_order_payment/internal/domain/order/repository"
	"shop_order_payment/pkg/errs"
	"shop_order_payment/pkg/logger"
	"shop_order_payment/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService 订单服务接口
type OrderService interface {
	// CreateOrder 订单装配：校验 → 快照 → 计价 → 同一事务内落库订单并消费购物车行。
	// 本地事务提交之后才允许向网关要结算链接（见 payment 模块），
	// 网关调用失败不影响已创建的订单，凭同一订单号可重试取链接
	CreateOrder(customerID, addressID, branchID, paymentMethod string, cartLineIDs []string) (*model.Order, error)

	GetByCode(customerID, code string, isAdmin bool) (*model.Order, error)
	ListMine(customerID string, page, limit int) ([]model.Order, int64, error)
	MarkDelivered(code string) error
}

type orderService struct {
	repo      repository.OrderRepository
	carts     cartService.CartService
	customers customerService.CustomerService
	catalog   catalogRepo.CatalogRepository
}

func NewOrderService(
	repo repository.OrderRepository,
	carts cartService.CartService,
	customers customerService.CustomerService,
	catalog catalogRepo.CatalogRepository,
) OrderService {
	return &orderService{repo: repo, carts: carts, customers: customers, catalog: catalog}
}

var validMethods = map[string]bool{
	model.MethodGateway:      true,
	model.MethodAlipay:       true,
	model.MethodBankTransfer: true,
}

func (s *orderService) CreateOrder(customerID, addressID, branchID, paymentMethod string, cartLineIDs []string) (*model.Order, error) {
	if !validMethods[paymentMethod] {
		return nil, errs.New(errs.KindValidation, "unsupported payment method")
	}

	// 1. 授权与状态校验
	if _, err := s.customers.GetActive(customerID); err != nil {
		return nil, err
	}
	address, err := s.customers.GetOwnedAddress(customerID, addressID)
	if err != nil {
		return nil, err
	}

	branch, err := s.catalog.GetBranch(branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "branch not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "load branch", err)
	}
	if !branch.Enabled {
		return nil, errs.New(errs.KindInvalidState, "branch is disabled")
	}

	// 2. 按明确行ID集合取快照，挡住"快照与提交之间又加购"的情况
	cart, lines, err := s.carts.Snapshot(customerID, cartLineIDs)
	if err != nil {
		return nil, err
	}

	// 3. 计价
	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	promos, err := s.catalog.GetActivePromotions(productIDs, time.Now())
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "load promotions", err)
	}

	priced, total, err := PriceLines(lines, promos, time.Now())
	if err != nil {
		return nil, err
	}

	// 4. 组装订单，订单行是定格快照，此后永不重算
	order := &model.Order{
		CustomerID:    customerID,
		AddressID:     address.ID,
		BranchID:      branch.ID,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		Status:        model.StatusProcessing,
		PaymentStatus: model.PaymentPending,
	}
	for _, p := range priced {
		order.Lines = append(order.Lines, model.OrderLine{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			UnitPrice:   p.UnitPrice,
			Quantity:    p.Quantity,
			Amount:      p.Amount,
			PromotionID: p.PromotionID,
		})
	}

	// 5. 订单落库与购物车行消费在同一事务内提交
	if err := s.repo.CreateWithCartConsumption(order, cart.ID, cartLineIDs); err != nil {
		if errors.Is(err, repository.ErrCartLineGone) {
			return nil, errs.New(errs.KindNotFound, "cart line not found or already consumed")
		}
		return nil, errs.Wrap(errs.KindInternal, "persist order", err)
	}

	metrics.GetGlobalCollector().OrderCreated(paymentMethod, total)
	logger.Log.Info("Order created",
		zap.String("order_code", order.OrderCode),
		zap.String("customer_id", customerID),
		zap.Float64("total", total))

	return order, nil
}

func (s *orderService) GetByCode(customerID, code string, isAdmin bool) (*model.Order, error) {
	order, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "order not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "load order", err)
	}
	// 非管理员只能看自己的订单，不泄露他人订单的存在性
	if !isAdmin && order.CustomerID != customerID {
		return nil, errs.New(errs.KindNotFound, "order not found")
	}
	return order, nil
}

func (s *orderService) ListMine(customerID string, page, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	orders, total, err := s.repo.ListByCustomer(customerID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, errs.Wrap(errs.KindInternal, "list orders", err)
	}
	return orders, total, nil
}

func (s *orderService) MarkDelivered(code string) error {
	affected, err := s.repo.MarkDelivered(code, time.Now())
	if err != nil {
		return errs.Wrap(errs.KindInternal, "mark delivered", err)
	}
	if affected == 0 {
		// 订单不存在或不在 CONFIRMED 状态
		order, err := s.repo.GetByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.New(errs.KindNotFound, "order not found")
			}
			return errs.Wrap(errs.KindInternal, "load order", err)
		}
		return errs.Newf(errs.KindStateConflict, "order %s cannot be delivered from status %s", code, order.Status)
	}
	return nil
}
