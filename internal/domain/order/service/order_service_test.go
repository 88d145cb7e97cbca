package service

import (
	"testing"
	"time"

	cartModel "shop_order_payment/internal/domain/cart/model"
	catalogModel "shop_order_payment/internal/domain/catalog/model"
	customerModel "shop_order_payment/internal/domain/customer/model"
	"shop_order_payment/internal/domain/order/model"
	"shop_order_payment/internal/domain/order/repository"
	"shop_order_payment/pkg/errs"
	baseModel "shop_order_payment/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithCartConsumption(order *model.Order, cartID string, lineIDs []string) error {
	args := m.Called(order, cartID, lineIDs)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByCode(code string) (*model.Order, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(customerID string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(customerID, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) MarkPaid(orderCode, providerTxID string, paidAt time.Time) (int64, error) {
	args := m.Called(orderCode, providerTxID, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) MarkPaymentFailed(orderCode string) (int64, error) {
	args := m.Called(orderCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Cancel(orderCode string) (int64, error) {
	args := m.Called(orderCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) MarkDelivered(orderCode string, at time.Time) (int64, error) {
	args := m.Called(orderCode, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockCartService is a mock of cart service used by the assembler
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(customerID string) (*cartModel.Cart, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartModel.Cart), args.Error(1)
}

func (m *MockCartService) AddLine(customerID, productID string, quantity int) (*cartModel.CartLine, error) {
	args := m.Called(customerID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartModel.CartLine), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(customerID, lineID string, quantity int) (*cartModel.CartLine, error) {
	args := m.Called(customerID, lineID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartModel.CartLine), args.Error(1)
}

func (m *MockCartService) RemoveLine(customerID, lineID string) error {
	args := m.Called(customerID, lineID)
	return args.Error(0)
}

func (m *MockCartService) Snapshot(customerID string, lineIDs []string) (*cartModel.Cart, []cartModel.CartLine, error) {
	args := m.Called(customerID, lineIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*cartModel.Cart), args.Get(1).([]cartModel.CartLine), args.Error(2)
}

// MockCustomerService is a mock of customer service used by the assembler
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) GetProfile(id string) (*customerModel.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *MockCustomerService) ListAddresses(customerID string) ([]customerModel.Address, error) {
	args := m.Called(customerID)
	return args.Get(0).([]customerModel.Address), args.Error(1)
}

func (m *MockCustomerService) CreateAddress(customerID, receiver, phone, line, city string) (*customerModel.Address, error) {
	args := m.Called(customerID, receiver, phone, line, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Address), args.Error(1)
}

func (m *MockCustomerService) GetActive(id string) (*customerModel.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *MockCustomerService) GetOwnedAddress(customerID, addressID string) (*customerModel.Address, error) {
	args := m.Called(customerID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Address), args.Error(1)
}

// MockCatalogRepository is a mock of CatalogRepository
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

func activeCustomer(id string) *customerModel.Customer {
	return &customerModel.Customer{
		BaseModel: baseModel.BaseModel{ID: id},
		Phone:     "13800138000",
		Status:    customerModel.StatusActive,
	}
}

func ownedAddress(id, customerID string) *customerModel.Address {
	return &customerModel.Address{
		BaseModel:  baseModel.BaseModel{ID: id},
		CustomerID: customerID,
		Receiver:   "Receiver",
		Phone:      "13800138000",
		Line:       "1 Test Street",
	}
}

func enabledBranch(id string) *catalogModel.Branch {
	return &catalogModel.Branch{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Main Branch",
		Enabled:   true,
	}
}

func TestCreateOrder(t *testing.T) {
	newService := func() (*MockOrderRepository, *MockCartService, *MockCustomerService, *MockCatalogRepository, OrderService) {
		mockRepo := new(MockOrderRepository)
		mockCarts := new(MockCartService)
		mockCustomers := new(MockCustomerService)
		mockCatalog := new(MockCatalogRepository)
		svc := NewOrderService(mockRepo, mockCarts, mockCustomers, mockCatalog)
		return mockRepo, mockCarts, mockCustomers, mockCatalog, svc
	}

	customerID := "cust-1"
	addressID := "addr-1"
	branchID := "branch-1"
	lineIDs := []string{"line-1", "line-2"}

	cart := &cartModel.Cart{
		BaseModel:  baseModel.BaseModel{ID: "cart-1"},
		CustomerID: customerID,
		Status:     cartModel.CartStatusActive,
	}
	lines := []cartModel.CartLine{
		{BaseModel: baseModel.BaseModel{ID: "line-1"}, CartID: "cart-1", ProductID: "p1", ProductName: "Tea", UnitPrice: 10.00, Quantity: 2},
		{BaseModel: baseModel.BaseModel{ID: "line-2"}, CartID: "cart-1", ProductID: "p2", ProductName: "Coffee", UnitPrice: 5.00, Quantity: 1},
	}

	t.Run("Total equals sum of line amounts", func(t *testing.T) {
		mockRepo, mockCarts, mockCustomers, mockCatalog, svc := newService()

		mockCustomers.On("GetActive", customerID).Return(activeCustomer(customerID), nil)
		mockCustomers.On("GetOwnedAddress", customerID, addressID).Return(ownedAddress(addressID, customerID), nil)
		mockCatalog.On("GetBranch", branchID).Return(enabledBranch(branchID), nil)
		mockCarts.On("Snapshot", customerID, lineIDs).Return(cart, lines, nil)
		mockCatalog.On("GetActivePromotions", []string{"p1", "p2"}, mock.AnythingOfType("time.Time")).
			Return(map[string][]catalogModel.Promotion{}, nil)
		mockRepo.On("CreateWithCartConsumption", mock.AnythingOfType("*model.Order"), "cart-1", lineIDs).
			Run(func(args mock.Arguments) {
				args.Get(0).(*model.Order).OrderCode = "ORD00042"
			}).Return(nil)

		order, err := svc.CreateOrder(customerID, addressID, branchID, model.MethodGateway, lineIDs)

		assert.NoError(t, err)
		assert.Equal(t, "ORD00042", order.OrderCode)
		assert.Equal(t, 25.00, order.TotalAmount)
		assert.Len(t, order.Lines, 2)
		var sum float64
		for _, l := range order.Lines {
			sum += l.Amount
		}
		assert.Equal(t, order.TotalAmount, sum)
		assert.Equal(t, model.StatusProcessing, order.Status)
		assert.Equal(t, model.PaymentPending, order.PaymentStatus)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unsupported payment method", func(t *testing.T) {
		_, _, _, _, svc := newService()

		_, err := svc.CreateOrder(customerID, addressID, branchID, "cash", lineIDs)

		assert.Error(t, err)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("Inactive customer is rejected", func(t *testing.T) {
		_, _, mockCustomers, _, svc := newService()

		mockCustomers.On("GetActive", customerID).
			Return(nil, errs.New(errs.KindInvalidState, "customer is not active"))

		_, err := svc.CreateOrder(customerID, addressID, branchID, model.MethodGateway, lineIDs)

		assert.Error(t, err)
		assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
	})

	t.Run("Disabled branch is rejected", func(t *testing.T) {
		_, _, mockCustomers, mockCatalog, svc := newService()

		disabled := enabledBranch(branchID)
		disabled.Enabled = false
		mockCustomers.On("GetActive", customerID).Return(activeCustomer(customerID), nil)
		mockCustomers.On("GetOwnedAddress", customerID, addressID).Return(ownedAddress(addressID, customerID), nil)
		mockCatalog.On("GetBranch", branchID).Return(disabled, nil)

		_, err := svc.CreateOrder(customerID, addressID, branchID, model.MethodGateway, lineIDs)

		assert.Error(t, err)
		assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))
	})

	t.Run("Stale cart line reported as not found", func(t *testing.T) {
		_, mockCarts, mockCustomers, mockCatalog, svc := newService()

		mockCustomers.On("GetActive", customerID).Return(activeCustomer(customerID), nil)
		mockCustomers.On("GetOwnedAddress", customerID, addressID).Return(ownedAddress(addressID, customerID), nil)
		mockCatalog.On("GetBranch", branchID).Return(enabledBranch(branchID), nil)
		mockCarts.On("Snapshot", customerID, lineIDs).
			Return(nil, nil, errs.New(errs.KindNotFound, "cart line not found"))

		_, err := svc.CreateOrder(customerID, addressID, branchID, model.MethodGateway, lineIDs)

		assert.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("Concurrent consumption surfaces as not found", func(t *testing.T) {
		mockRepo, mockCarts, mockCustomers, mockCatalog, svc := newService()

		mockCustomers.On("GetActive", customerID).Return(activeCustomer(customerID), nil)
		mockCustomers.On("GetOwnedAddress", customerID, addressID).Return(ownedAddress(addressID, customerID), nil)
		mockCatalog.On("GetBranch", branchID).Return(enabledBranch(branchID), nil)
		mockCarts.On("Snapshot", customerID, lineIDs).Return(cart, lines, nil)
		mockCatalog.On("GetActivePromotions", []string{"p1", "p2"}, mock.AnythingOfType("time.Time")).
			Return(map[string][]catalogModel.Promotion{}, nil)
		mockRepo.On("CreateWithCartConsumption", mock.AnythingOfType("*model.Order"), "cart-1", lineIDs).
			Return(repository.ErrCartLineGone)

		_, err := svc.CreateOrder(customerID, addressID, branchID, model.MethodGateway, lineIDs)

		assert.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestGetByCode(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, new(MockCartService), new(MockCustomerService), new(MockCatalogRepository))

	order := &model.Order{
		OrderCode:  "ORD00001",
		CustomerID: "cust-1",
		Status:     model.StatusProcessing,
	}

	t.Run("Owner can read own order", func(t *testing.T) {
		mockRepo.On("GetByCode", "ORD00001").Return(order, nil).Once()

		got, err := svc.GetByCode("cust-1", "ORD00001", false)

		assert.NoError(t, err)
		assert.Equal(t, "ORD00001", got.OrderCode)
	})

	t.Run("Other customer sees not found", func(t *testing.T) {
		mockRepo.On("GetByCode", "ORD00001").Return(order, nil).Once()

		_, err := svc.GetByCode("cust-2", "ORD00001", false)

		assert.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("Admin can read any order", func(t *testing.T) {
		mockRepo.On("GetByCode", "ORD00001").Return(order, nil).Once()

		got, err := svc.GetByCode("cust-2", "ORD00001", true)

		assert.NoError(t, err)
		assert.Equal(t, "ORD00001", got.OrderCode)
	})

	t.Run("Missing order", func(t *testing.T) {
		mockRepo.On("GetByCode", "ORD99999").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.GetByCode("cust-1", "ORD99999", false)

		assert.Error(t, err)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestMarkDelivered(t *testing.T) {
	t.Run("Delivered from confirmed", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		svc := NewOrderService(mockRepo, new(MockCartService), new(MockCustomerService), new(MockCatalogRepository))

		mockRepo.On("MarkDelivered", "ORD00001", mock.AnythingOfType("time.Time")).Return(int64(1), nil)

		assert.NoError(t, svc.MarkDelivered("ORD00001"))
	})

	t.Run("Wrong state reports conflict", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		svc := NewOrderService(mockRepo, new(MockCartService), new(MockCustomerService), new(MockCatalogRepository))

		mockRepo.On("MarkDelivered", "ORD00001", mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockRepo.On("GetByCode", "ORD00001").
			Return(&model.Order{OrderCode: "ORD00001", Status: model.StatusProcessing}, nil)

		err := svc.MarkDelivered("ORD00001")

		assert.Error(t, err)
		assert.Equal(t, errs.KindStateConflict, errs.KindOf(err))
	})
}
