package model

import (
	"time"

	baseModel "shop_order_payment/pkg/model"
)

// Order 订单
// 创建后除 Status / PaymentStatus / DeliveredAt 外所有字段不可变，
// 订单永不删除，只做状态流转
type Order struct {
	baseModel.BaseModel
	OrderCode     string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"orderCode"`
	CustomerID    string  `gorm:"type:uuid;index;not null" json:"customerId"`
	AddressID     string  `gorm:"type:uuid;not null" json:"addressId"`
	BranchID      string  `gorm:"type:uuid;not null" json:"branchId"`
	TotalAmount   float64 `gorm:"not null" json:"totalAmount"`
	PaymentMethod string  `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	Status        string  `gorm:"type:varchar(20);default:'PROCESSING';index" json:"status"`
	PaymentStatus string  `gorm:"type:varchar(20);default:'PENDING';index" json:"paymentStatus"`

	ProviderTxID string     `gorm:"type:varchar(100)" json:"providerTxId,omitempty"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`

	Lines []OrderLine `gorm:"foreignKey:OrderID" json:"lines"`
}

// OrderLine 订单行：下单时刻从购物车行定格的快照，此后永不重算
type OrderLine struct {
	baseModel.BaseModel
	OrderID     string  `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID   string  `gorm:"type:uuid;not null" json:"productId"`
	ProductName string  `gorm:"type:varchar(200);not null" json:"productName"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Amount      float64 `gorm:"not null" json:"amount"` // 折后行金额
	PromotionID *string `gorm:"type:uuid" json:"promotionId,omitempty"`
}

const (
	StatusProcessing = "PROCESSING"
	StatusConfirmed  = "CONFIRMED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"

	PaymentPending   = "PENDING"
	PaymentPaid      = "PAID"
	PaymentFailed    = "FAILED"
	PaymentCancelled = "CANCELLED"

	MethodGateway      = "payos"
	MethodAlipay       = "alipay"
	MethodBankTransfer = "bank_transfer"
)
