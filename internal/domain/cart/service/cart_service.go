package service

import (
	"errors"

	"shop_order_payment/internal/domain/cart/model"
	"shop_order_payment/internal/domain/cart/repository"
	catalogRepo "shop_order_payment/internal/domain/catalog/repository"
	"shop_order_payment/pkg/errs"

	"gorm.io/gorm"
)

// MaxLineQuantity 单行数量上限，约束购物篮规模，防止溢出与滥用
const MaxLineQuantity = 100

// CartService 购物车服务接口
type CartService interface {
	GetCart(customerID string) (*model.Cart, error)
	AddLine(customerID, productID string, quantity int) (*model.CartLine, error)
	UpdateQuantity(customerID, lineID string, quantity int) (*model.CartLine, error)
	RemoveLine(customerID, lineID string) error

	// Snapshot 按明确行ID集合取结算快照，是下单装配的第一步
	Snapshot(customerID string, lineIDs []string) (*model.Cart, []model.CartLine, error)
}

type cartService struct {
	repo    repository.CartRepository
	catalog catalogRepo.CatalogRepository
}

func NewCartService(repo repository.CartRepository, catalog catalogRepo.CatalogRepository) CartService {
	return &cartService{repo: repo, catalog: catalog}
}

func (s *cartService) GetCart(customerID string) (*model.Cart, error) {
	cart, err := s.repo.GetActiveCart(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 没有活跃购物车等价于空购物车
			return &model.Cart{CustomerID: customerID, Status: model.CartStatusActive}, nil
		}
		return nil, errs.Wrap(errs.KindInternal, "load cart", err)
	}
	return cart, nil
}

func (s *cartService) AddLine(customerID, productID string, quantity int) (*model.CartLine, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, errs.Newf(errs.KindValidation, "quantity must be between 1 and %d", MaxLineQuantity)
	}

	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "product not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "load product", err)
	}
	if !product.Active {
		return nil, errs.New(errs.KindInvalidState, "product is not available")
	}

	cart, err := s.repo.GetOrCreateActiveCart(customerID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "get or create cart", err)
	}

	// 已有同商品行则合并数量，单价保持首次加购时的定格价
	line, err := s.repo.FindLineByProduct(cart.ID, productID)
	if err == nil {
		newQty := line.Quantity + quantity
		if newQty > MaxLineQuantity {
			return nil, errs.Newf(errs.KindValidation, "quantity must be between 1 and %d", MaxLineQuantity)
		}
		if err := s.repo.UpdateLineQuantity(line.ID, newQty); err != nil {
			return nil, errs.Wrap(errs.KindInternal, "update line quantity", err)
		}
		line.Quantity = newQty
		return line, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Wrap(errs.KindInternal, "find cart line", err)
	}

	line = &model.CartLine{
		CartID:      cart.ID,
		ProductID:   productID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price, // 加购时刻定格
	}
	if err := s.repo.CreateLine(line); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "create cart line", err)
	}
	return line, nil
}

func (s *cartService) UpdateQuantity(customerID, lineID string, quantity int) (*model.CartLine, error) {
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, errs.Newf(errs.KindValidation, "quantity must be between 1 and %d", MaxLineQuantity)
	}

	line, err := s.repo.GetLine(customerID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "cart line not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "load cart line", err)
	}

	if err := s.repo.UpdateLineQuantity(line.ID, quantity); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "update line quantity", err)
	}
	line.Quantity = quantity
	return line, nil
}

func (s *cartService) RemoveLine(customerID, lineID string) error {
	line, err := s.repo.GetLine(customerID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.New(errs.KindNotFound, "cart line not found")
		}
		return errs.Wrap(errs.KindInternal, "load cart line", err)
	}
	if err := s.repo.DeleteLine(line.ID); err != nil {
		return errs.Wrap(errs.KindInternal, "delete cart line", err)
	}
	return nil
}

func (s *cartService) Snapshot(customerID string, lineIDs []string) (*model.Cart, []model.CartLine, error) {
	if len(lineIDs) == 0 {
		return nil, nil, errs.New(errs.KindValidation, "cart line ids are required")
	}

	cart, lines, err := s.repo.GetLinesForCheckout(customerID, lineIDs)
	if err != nil {
		if errors.Is(err, repository.ErrLineNotFound) {
			return nil, nil, errs.New(errs.KindNotFound, "cart line not found or already consumed")
		}
		return nil, nil, errs.Wrap(errs.KindInternal, "read cart snapshot", err)
	}
	return cart, lines, nil
}
