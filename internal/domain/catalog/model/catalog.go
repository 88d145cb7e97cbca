package model

import (
	"time"

	baseModel "shop_order_payment/pkg/model"
)

// Product 商品读模型
// 商品管理由后台系统负责，这里只读价格与上架状态
type Product struct {
	baseModel.BaseModel
	Name   string  `gorm:"type:varchar(200);not null" json:"name"`
	Price  float64 `gorm:"not null" json:"price"`
	Active bool    `gorm:"default:true" json:"active"`
}

// Branch 门店
type Branch struct {
	baseModel.BaseModel
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}

// Promotion 促销活动，按商品维度生效
// DiscountPercent 与 DiscountAmount 二选一，percent 优先
type Promotion struct {
	baseModel.BaseModel
	ProductID       string    `gorm:"type:uuid;index;not null" json:"productId"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	DiscountPercent float64   `json:"discountPercent"`
	DiscountAmount  float64   `json:"discountAmount"`
	StartsAt        time.Time `gorm:"not null" json:"startsAt"`
	EndsAt          time.Time `gorm:"not null" json:"endsAt"`
	Active          bool      `gorm:"default:true" json:"active"`
}

// EligibleAt 是否在生效窗口内
func (p *Promotion) EligibleAt(t time.Time) bool {
	return p.Active && !t.Before(p.StartsAt) && t.Before(p.EndsAt)
}

// DiscountFor 计算对给定行金额的让利，不会超过行金额本身
func (p *Promotion) DiscountFor(lineAmount float64) float64 {
	var d float64
	if p.DiscountPercent > 0 {
		d = lineAmount * p.DiscountPercent / 100
	} else {
		d = p.DiscountAmount
	}
	if d > lineAmount {
		d = lineAmount
	}
	if d < 0 {
		d = 0
	}
	return d
}
