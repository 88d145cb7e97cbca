package model

import (
	baseModel "shop_order_payment/pkg/model"
)

// Cart 购物车，每个客户至多一个 ACTIVE 购物车（数据库部分唯一索引约束）
// 首次加购时惰性创建；最后一行被下单消费后标记 CHECKED_OUT
type Cart struct {
	baseModel.BaseModel
	CustomerID string `gorm:"type:uuid;index;not null" json:"customerId"`
	Status     string `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`

	Lines []CartLine `gorm:"foreignKey:CartID" json:"lines"`
}

// CartLine 购物车行
// UnitPrice 在加购时刻定格，此后目录调价不影响已有行
type CartLine struct {
	baseModel.BaseModel
	CartID      string  `gorm:"type:uuid;index;not null" json:"cartId"`
	ProductID   string  `gorm:"type:uuid;index;not null" json:"productId"`
	ProductName string  `gorm:"type:varchar(200);not null" json:"productName"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
}

const (
	CartStatusActive     = "ACTIVE"
	CartStatusCheckedOut = "CHECKED_OUT"
)
