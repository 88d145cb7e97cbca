package repository

import (
	"errors"

	"shop_order_payment/internal/domain/cart/model"

	"gorm.io/gorm"
)

var ErrLineNotFound = errors.New("cart line not found")

// CartRepository 购物车仓库
type CartRepository interface {
	GetActiveCart(customerID string) (*model.Cart, error)
	GetOrCreateActiveCart(customerID string) (*model.Cart, error)
	GetLine(customerID, lineID string) (*model.CartLine, error)
	FindLineByProduct(cartID, productID string) (*model.CartLine, error)
	CreateLine(line *model.CartLine) error
	UpdateLineQuantity(lineID string, quantity int) error
	DeleteLine(lineID string) error

	// GetLinesForCheckout 按明确给出的行ID集合读取快照
	// 任何一行不存在或不属于该客户的 ACTIVE 购物车即返回 ErrLineNotFound
	GetLinesForCheckout(customerID string, lineIDs []string) (*model.Cart, []model.CartLine, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetActiveCart(customerID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Preload("Lines").
		Where("customer_id = ? AND status = ?", customerID, model.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreateActiveCart(customerID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.
		Where("customer_id = ? AND status = ?", customerID, model.CartStatusActive).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = model.Cart{CustomerID: customerID, Status: model.CartStatusActive}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetLine(customerID, lineID string) (*model.CartLine, error) {
	var line model.CartLine
	err := r.db.
		Joins("JOIN carts ON carts.id = cart_lines.cart_id").
		Where("cart_lines.id = ? AND carts.customer_id = ? AND carts.status = ?",
			lineID, customerID, model.CartStatusActive).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) FindLineByProduct(cartID, productID string) (*model.CartLine, error) {
	var line model.CartLine
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) CreateLine(line *model.CartLine) error {
	return r.db.Create(line).Error
}

func (r *cartRepository) UpdateLineQuantity(lineID string, quantity int) error {
	return r.db.Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *cartRepository) DeleteLine(lineID string) error {
	return r.db.Delete(&model.CartLine{}, "id = ?", lineID).Error
}

func (r *cartRepository) GetLinesForCheckout(customerID string, lineIDs []string) (*model.Cart, []model.CartLine, error) {
	cart, err := r.GetActiveCart(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrLineNotFound
		}
		return nil, nil, err
	}

	var lines []model.CartLine
	err = r.db.
		Where("cart_id = ? AND id IN ?", cart.ID, lineIDs).
		Find(&lines).Error
	if err != nil {
		return nil, nil, err
	}

	// 数量对不上说明有行已被并发下单消费或根本不存在
	if len(lines) != len(lineIDs) {
		return nil, nil, ErrLineNotFound
	}
	return cart, lines, nil
}
