package service

import (
	"testing"
	"time"

	"shop_order_payment/internal/domain/cart/model"
	"shop_order_payment/internal/domain/cart/repository"
	catalogModel "shop_order_payment/internal/domain/catalog/model"
	"shop_order_payment/pkg/errs"
	baseModel "shop_order_payment/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCartRepository is a mock of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetActiveCart(customerID string) (*model.Cart, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreateActiveCart(customerID string) (*model.Cart, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) GetLine(customerID, lineID string) (*model.CartLine, error) {
	args := m.Called(customerID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) FindLineByProduct(cartID, productID string) (*model.CartLine, error) {
	args := m.Called(cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) CreateLine(line *model.CartLine) error {
	args := m.Called(line)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateLineQuantity(lineID string, quantity int) error {
	args := m.Called(lineID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteLine(lineID string) error {
	args := m.Called(lineID)
	return args.Error(0)
}

func (m *MockCartRepository) GetLinesForCheckout(customerID string, lineIDs []string) (*model.Cart, []model.CartLine, error) {
	args := m.Called(customerID, lineIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Cart), args.Get(1).([]model.CartLine), args.Error(2)
}

// MockCatalogRepository is a mock of the catalog read model
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetProduct(id string) (*catalogModel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetBranch(id string) (*catalogModel.Branch, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Branch), args.Error(1)
}

func (m *MockCatalogRepository) GetActivePromotions(productIDs []string, now time.Time) (map[string][]catalogModel.Promotion, error) {
	args := m.Called(productIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]catalogModel.Promotion), args.Error(1)
}

func (m *MockCatalogRepository) ListActiveProducts(offset, limit int) ([]catalogModel.Product, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]catalogModel.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListEnabledBranches() ([]catalogModel.Branch, error) {
	args := m.Called()
	return args.Get(0).([]catalogModel.Branch), args.Error(1)
}

func activeProduct(id string, price float64) *catalogModel.Product {
	return &catalogModel.Product{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Product " + id,
		Price:     price,
		Active:    true,
	}
}

func TestAddLine(t *testing.T) {
	customerID := "cust-1"
	cart := &model.Cart{
		BaseModel:  baseModel.BaseModel{ID: "cart-1"},
		CustomerID: customerID,
		Status:     model.CartStatusActive,
	}

	t.Run("New line captures current price", func(t *testing.T) {
		mockRepo := new(MockCartRepository)
		mockCatalog := new(MockCatalogRepository)
		svc := NewCartService(mockRepo, mockCatalog)

		mockCatalog.On("GetProduct", "p1").Return(activeProduct("p1", 12.50), nil)
		mockRepo.On("GetOrCreateActiveCart", customerID).Return(cart, nil)
		mockRepo.On("FindLineByProduct", "cart-1", "p1").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("CreateLine", mock.AnythingOfType("*model.CartLine")).Return(nil)

		line, err := svc.AddLine(customerID, "p1", 2)

		assert.NoError(t, err)
		assert.Equal(t, 12.50, line.UnitPrice)
		assert.Equal(t, 2, line.Quantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Same product merges and keeps captured price", func(t *testing.T) {
		mockRepo := new(MockCartRepository)
		mockCatalog := new(MockCatalogRepository)
		svc := NewCartService(mockRepo, mockCatalog)

		existing := &model.CartLine{
			BaseModel: baseModel.BaseModel{ID: "line-1"},
			CartID:    "cart-1",
			ProductID: "p1",
			Quantity:  1,
			UnitPrice: 9.99, // 目录里价格后来涨了也不变
		}
		mockCatalog.On("GetProduct", "p1").Return(activeProduct("p1", 15.00), nil)
		mockRepo.On("GetOrCreateActiveCart", customerID).Return(cart, nil)
		mockRepo.On("FindLineByProduct", "cart-1", "p1").Return(existing, nil)
		mockRepo.On("UpdateLineQuantity", "line-1", 3).Return(nil)

		line, err := svc.AddLine(customerID, "p1", 2)

		assert.NoError(t, err)
		assert.Equal(t, 9.99, line.UnitPrice)
		assert.Equal(t, 3, line.Quantity)
	})

	t.Run("Merged quantity cannot exceed the cap", func(t *testing.T) {
		mockRepo := new(MockCartRepository)
		mockCatalog := new(MockCatalogRepository)
		svc := NewCartService(mockRepo, mockCatalog)

		existing := &model.CartLine{
			BaseModel: baseModel.BaseModel{ID: "line-1"},
			CartID:    "cart-1",
			ProductID: "p1",
			Quantity:  99,
			UnitPrice: 9.99,
		}
		mockCatalog.On("GetProduct", "p1").Return(activeProduct("p1", 9.99), nil)
		mockRepo.On("GetOrCreateActiveCart", customerID).Return(cart, nil)
		mockRepo.On("FindLineByProduct", "cart-1", "p1").Return(existing, nil)

		_, err := svc.AddLine(customerID, "p1", 2)

		assert.Error(t, err)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("Inactive product is rejected", func(t *testing.T) {
		mockRepo := new(MockCartRepository)
		mockCatalog := new(MockCatalogRepository)
		svc := NewCartService(mockRepo, mockCatalog)

		inactive := activeProduct("p1", 9.99)
		inactive.Active = false
		mockCatalog.On("GetProduct", "p1").Return(inactive, nil)

		_, err := svc.AddLine(customerID, "p1", 1)

		assert.Error(t, err)
		assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
	})

	t.Run("Quantity bounds", func(t *testing.T) {
		svc := NewCartService(new(MockCartRepository), new(MockCatalogRepository))

		for _, qty := range []int{0, -3, MaxLineQuantity + 1} {
			_, err := svc.AddLine(customerID, "p1", qty)
			assert.Error(t, err)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
		}
	})
}

func TestSnapshot(t *testing.T) {
	customerID := "cust-1"

	t.Run("Returns exactly the requested lines", func(t *testing.T) {
		mockRepo := new(MockCartRepository)
		svc := NewCartService(mockRepo, new(MockCatalogRepository))

		cart := &model.Cart{BaseModel: baseModel.BaseModel{ID: "cart-1"}, CustomerID: customerID}
		lines := []model.CartLine{
			{BaseModel: baseModel.BaseModel{ID: "line-1"}, CartID: "cart-1", ProductID: "p1", Quantity: 1, UnitPrice: 10},
		}
		mockRepo.On("GetLinesForCheckout", customerID, []string{"line-1"}).Return(cart, lines, nil)

		gotCart, gotLines, err := svc.Snapshot(customerID, []string{"line-1"})

		assert.NoError(t, err)
		assert.Equal(t, "cart-1", gotCart.ID)
		assert.Len(t, gotLines, 1)
	})

	t.Run("Missing line maps to not found", func(t *testing.T) {
		mockRepo := new(MockCartRepository)
		svc := NewCartService(mockRepo, new(MockCatalogRepository))

		mockRepo.On("GetLinesForCheckout", customerID, []string{"line-1", "line-gone"}).
			Return(nil, nil, repository.ErrLineNotFound)

		_, _, err := svc.Snapshot(customerID, []string{"line-1", "line-gone"})

		assert.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("Empty selection is invalid", func(t *testing.T) {
		svc := NewCartService(new(MockCartRepository), new(MockCatalogRepository))

		_, _, err := svc.Snapshot(customerID, nil)

		assert.Error(t, err)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})
}
