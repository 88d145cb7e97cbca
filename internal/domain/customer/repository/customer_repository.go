package repository

import (
	"shop_order_payment/internal/domain/customer/model"

	"gorm.io/gorm"
)

// CustomerRepository 接口定义
type CustomerRepository interface {
	GetByID(id string) (*model.Customer, error)
	GetAddress(id string) (*model.Address, error)
	ListAddresses(customerID string) ([]model.Address, error)
	CreateAddress(address *model.Address) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(id string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetAddress(id string) (*model.Address, error) {
	var address model.Address
	if err := r.db.Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *customerRepository) ListAddresses(customerID string) ([]model.Address, error) {
	var addresses []model.Address
	if err := r.db.Where("customer_id = ?", customerID).Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *customerRepository) CreateAddress(address *model.Address) error {
	return r.db.Create(address).Error
}
