package service

import (
	"math"
	"time"

	cartModel "shop_order_payment/internal/domain/cart/model"
	catalogModel "shop_order_payment/internal/domain/catalog/model"
	"shop_order_payment/pkg/errs"
)

// MaxLineQuantity 单行数量上限（与购物车侧一致，下单时再验一遍）
const MaxLineQuantity = 100

// PricedLine 计价结果行
type PricedLine struct {
	ProductID   string
	ProductName string
	UnitPrice   float64
	Quantity    int
	Amount      float64 // 折后行金额
	PromotionID *string // 命中的促销，未命中为 nil
}

// PriceLines 计算每行折后金额与订单总额
// 每行至多命中一个促销；多个促销同时符合时让利最大者胜出，
// 并列时按 StartsAt 早者、再按 ID 小者，保证结果确定
func PriceLines(lines []cartModel.CartLine, promos map[string][]catalogModel.Promotion, now time.Time) ([]PricedLine, float64, error) {
	priced := make([]PricedLine, 0, len(lines))
	var total float64

	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > MaxLineQuantity {
			return nil, 0, errs.Newf(errs.KindValidation,
				"quantity for product %s must be between 1 and %d", line.ProductID, MaxLineQuantity)
		}
		if line.UnitPrice < 0 {
			return nil, 0, errs.Newf(errs.KindValidation,
				"unit price for product %s is invalid", line.ProductID)
		}

		gross := round2(line.UnitPrice * float64(line.Quantity))

		best := bestPromotion(promos[line.ProductID], gross, now)
		amount := gross
		var promotionID *string
		if best != nil {
			amount = round2(gross - best.DiscountFor(gross))
			id := best.ID
			promotionID = &id
		}

		priced = append(priced, PricedLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Amount:      amount,
			PromotionID: promotionID,
		})
		total = round2(total + amount)
	}

	return priced, total, nil
}

// bestPromotion 让利最大者胜出；并列取 StartsAt 早者，再取 ID 小者
func bestPromotion(candidates []catalogModel.Promotion, gross float64, now time.Time) *catalogModel.Promotion {
	var best *catalogModel.Promotion
	var bestDiscount float64

	for i := range candidates {
		p := &candidates[i]
		if !p.EligibleAt(now) {
			continue
		}
		d := p.DiscountFor(gross)
		if d <= 0 {
			continue
		}
		if best == nil || d > bestDiscount ||
			(d == bestDiscount && (p.StartsAt.Before(best.StartsAt) ||
				(p.StartsAt.Equal(best.StartsAt) && p.ID < best.ID))) {
			best = p
			bestDiscount = d
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
