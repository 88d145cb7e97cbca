package model

import (
	baseModel "shop_order_payment/pkg/model"
)

// Customer 客户
// 登录与会话由外部认证服务负责，这里持有授权检查所需的状态
type Customer struct {
	baseModel.BaseModel
	Phone  string `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Name   string `gorm:"type:varchar(100)" json:"name"`
	Role   int    `gorm:"default:1" json:"role"`
	Status string `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
}

// Address 收货地址
type Address struct {
	baseModel.BaseModel
	CustomerID string `gorm:"type:uuid;index;not null" json:"customerId"`
	Receiver   string `gorm:"type:varchar(100);not null" json:"receiver"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone"`
	Line       string `gorm:"type:varchar(255);not null" json:"line"`
	City       string `gorm:"type:varchar(100)" json:"city"`
}

const (
	RoleCustomer = 1
	RoleAdmin    = 2

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusBanned   = "BANNED"
)
