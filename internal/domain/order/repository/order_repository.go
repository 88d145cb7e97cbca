package repository

import (
	"errors"
	"fmt"
	"time"

	cartModel "shop_order_payment/internal/domain/cart/model"
	"shop_order_payment/internal/domain/order/model"

	"gorm.io/gorm"
)

// ErrCartLineGone 待消费的购物车行已不存在（并发下单时第二个事务会看到）
var ErrCartLineGone = errors.New("cart line already consumed")

// OrderRepository 订单仓库
type OrderRepository interface {
	// CreateWithCartConsumption 在同一事务内：分配订单号、落库订单与订单行、
	// 删除被消费的购物车行、购物车清空时标记 CHECKED_OUT。
	// 任一步失败整体回滚，绝不出现"订单在而购物车行还在"或反之
	CreateWithCartConsumption(order *model.Order, cartID string, lineIDs []string) error

	GetByCode(code string) (*model.Order, error)
	ListByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error)

	// 以下状态写入都带乐观前置条件，返回受影响行数；0 行表示当前状态不满足前置
	MarkPaid(orderCode, providerTxID string, paidAt time.Time) (int64, error)
	MarkPaymentFailed(orderCode string) (int64, error)
	Cancel(orderCode string) (int64, error)
	MarkDelivered(orderCode string, at time.Time) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// nextOrderCode 从数据库序列取号，杜绝 count()+1 式竞态
func nextOrderCode(tx *gorm.DB) (string, error) {
	var seq int64
	if err := tx.Raw("SELECT nextval('order_code_seq')").Scan(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD%05d", seq), nil
}

func (r *orderRepository) CreateWithCartConsumption(order *model.Order, cartID string, lineIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		code, err := nextOrderCode(tx)
		if err != nil {
			return err
		}
		order.OrderCode = code

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		// 按行ID集合删除；删掉的行数对不上说明有行已被并发下单消费，整体回滚
		res := tx.Where("cart_id = ? AND id IN ?", cartID, lineIDs).
			Delete(&cartModel.CartLine{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(lineIDs)) {
			return ErrCartLineGone
		}

		var remaining int64
		if err := tx.Model(&cartModel.CartLine{}).
			Where("cart_id = ?", cartID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Model(&cartModel.Cart{}).
				Where("id = ?", cartID).
				Update("status", cartModel.CartStatusCheckedOut).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *orderRepository) GetByCode(code string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Lines").Where("order_code = ?", code).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.Model(&model.Order{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Lines").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// MarkPaid 收款与确认是一个合并原子步骤，
// WHERE 条件即状态机前置：只有 PROCESSING+PENDING 的订单能被置为 PAID
func (r *orderRepository) MarkPaid(orderCode, providerTxID string, paidAt time.Time) (int64, error) {
	res := r.db.Model(&model.Order{}).
		Where("order_code = ? AND status = ? AND payment_status = ?",
			orderCode, model.StatusProcessing, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":         model.StatusConfirmed,
			"payment_status": model.PaymentPaid,
			"provider_tx_id": providerTxID,
			"paid_at":        paidAt,
		})
	return res.RowsAffected, res.Error
}

func (r *orderRepository) MarkPaymentFailed(orderCode string) (int64, error) {
	res := r.db.Model(&model.Order{}).
		Where("order_code = ? AND payment_status = ?", orderCode, model.PaymentPending).
		Update("payment_status", model.PaymentFailed)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) Cancel(orderCode string) (int64, error) {
	res := r.db.Model(&model.Order{}).
		Where("order_code = ? AND status = ? AND payment_status = ?",
			orderCode, model.StatusProcessing, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":         model.StatusCancelled,
			"payment_status": model.PaymentCancelled,
		})
	return res.RowsAffected, res.Error
}

func (r *orderRepository) MarkDelivered(orderCode string, at time.Time) (int64, error) {
	res := r.db.Model(&model.Order{}).
		Where("order_code = ? AND status = ?", orderCode, model.StatusConfirmed).
		Updates(map[string]interface{}{
			"status":       model.StatusDelivered,
			"delivered_at": at,
		})
	return res.RowsAffected, res.Error
}
