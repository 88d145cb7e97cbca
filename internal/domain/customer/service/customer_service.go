package service

import (
	"errors"

	"shop_order_payment/internal/domain/customer/model"
	"shop_order_payment/internal/domain/customer/repository"
	"shop_order_payment/pkg/errs"

	"gorm.io/gorm"
)

// CustomerService 客户服务接口
type CustomerService interface {
	GetProfile(id string) (*model.Customer, error)
	ListAddresses(customerID string) ([]model.Address, error)
	CreateAddress(customerID, receiver, phone, line, city string) (*model.Address, error)

	// GetActive 订单装配的授权检查：客户必须存在且状态为 ACTIVE
	GetActive(id string) (*model.Customer, error)
	// GetOwnedAddress 地址必须存在且属于该客户
	GetOwnedAddress(customerID, addressID string) (*model.Address, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) GetProfile(id string) (*model.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "customer not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "load customer", err)
	}
	return customer, nil
}

func (s *customerService) ListAddresses(customerID string) ([]model.Address, error) {
	addresses, err := s.repo.ListAddresses(customerID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "list addresses", err)
	}
	return addresses, nil
}

func (s *customerService) CreateAddress(customerID, receiver, phone, line, city string) (*model.Address, error) {
	address := &model.Address{
		CustomerID: customerID,
		Receiver:   receiver,
		Phone:      phone,
		Line:       line,
		City:       city,
	}
	if err := s.repo.CreateAddress(address); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "create address", err)
	}
	return address, nil
}

func (s *customerService) GetActive(id string) (*model.Customer, error) {
	customer, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}
	if customer.Status != model.StatusActive {
		return nil, errs.New(errs.KindInvalidState, "customer account is not active")
	}
	return customer, nil
}

func (s *customerService) GetOwnedAddress(customerID, addressID string) (*model.Address, error) {
	address, err := s.repo.GetAddress(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "address not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "load address", err)
	}
	// 不泄露他人地址的存在性，按不存在处理
	if address.CustomerID != customerID {
		return nil, errs.New(errs.KindNotFound, "address not found")
	}
	return address, nil
}
