package strategy

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"shop_order_payment/internal/pkg/config"
	"shop_order_payment/pkg/errs"

	"github.com/smartwalle/alipay/v3"
)

// AlipayStrategy 支付宝手机网页支付渠道
type AlipayStrategy struct {
	client *alipay.Client
	config config.AlipayConfig
}

func NewAlipayStrategy() (*AlipayStrategy, error) {
	cfg := config.GlobalConfig.Alipay
	if cfg.AppID == "" {
		return nil, errs.New(errs.KindInternal, "alipay config missing")
	}

	client, err := alipay.New(cfg.AppID, cfg.PrivateKey, cfg.IsProduction)
	if err != nil {
		return nil, err
	}

	// 加载支付宝公钥 (用于验证签名)
	if err = client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
		return nil, err
	}

	return &AlipayStrategy{
		client: client,
		config: cfg,
	}, nil
}

func (s *AlipayStrategy) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	p := alipay.TradeWapPay{}
	p.NotifyURL = s.config.NotifyURL
	p.ReturnURL = s.config.ReturnURL
	p.Subject = req.Description
	p.OutTradeNo = req.OrderCode
	p.TotalAmount = fmt.Sprintf("%.2f", req.Amount)
	p.ProductCode = "QUICK_WAP_WAY"
	// 支付宝收银台只展示摘要，明细拼进 body
	if len(req.Items) > 0 {
		names := make([]string, 0, len(req.Items))
		for _, it := range req.Items {
			names = append(names, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}
		p.Body = strings.Join(names, ", ")
	}

	payURL, err := s.client.TradeWapPay(p)
	if err != nil {
		return nil, errs.Wrap(errs.KindGatewayRejected, "alipay wap pay failed", err)
	}
	return &CheckoutResult{CheckoutURL: payURL.String()}, nil
}

func (s *AlipayStrategy) QueryOutcome(ctx context.Context, orderCode string) (*Outcome, error) {
	rsp, err := s.client.TradeQuery(ctx, alipay.TradeQuery{OutTradeNo: orderCode})
	if err != nil {
		return nil, errs.Wrap(errs.KindGatewayUnavailable, "alipay trade query failed", err)
	}

	amount, _ := strconv.ParseFloat(rsp.TotalAmount, 64)
	out := &Outcome{
		OrderCode:    orderCode,
		Amount:       amount,
		ProviderTxID: rsp.TradeNo,
		RawStatus:    string(rsp.TradeStatus),
	}
	switch rsp.TradeStatus {
	case alipay.TradeStatusSuccess, alipay.TradeStatusFinished:
		out.Paid = true
		out.Terminal = true
	case alipay.TradeStatusClosed:
		out.Terminal = true
	}
	return out, nil
}

func (s *AlipayStrategy) Cancel(ctx context.Context, orderCode string, reason string) error {
	_, err := s.client.TradeClose(ctx, alipay.TradeClose{OutTradeNo: orderCode})
	if err != nil {
		return errs.Wrap(errs.KindGatewayUnavailable, "alipay trade close failed", err)
	}
	return nil
}

// Notify 处理异步通知；params 预期是 url.Values (gin context.Request.Form)
func (s *AlipayStrategy) Notify(params interface{}) (*Outcome, error) {
	values, ok := params.(url.Values)
	if !ok {
		return nil, errs.New(errs.KindInternal, "alipay notify expects url.Values")
	}

	noti, err := s.client.DecodeNotification(values)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnauthorized, "alipay notification verify failed", err)
	}

	amount, _ := strconv.ParseFloat(noti.TotalAmount, 64)
	out := &Outcome{
		OrderCode:    noti.OutTradeNo,
		Amount:       amount,
		ProviderTxID: noti.TradeNo,
		RawStatus:    string(noti.TradeStatus),
	}
	switch noti.TradeStatus {
	case alipay.TradeStatusSuccess, alipay.TradeStatusFinished:
		out.Paid = true
		out.Terminal = true
	case alipay.TradeStatusClosed:
		out.Terminal = true
	}
	return out, nil
}

var _ PaymentStrategy = (*AlipayStrategy)(nil)
