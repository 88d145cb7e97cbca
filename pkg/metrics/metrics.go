package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 订单/支付链路指标
type Collector struct {
	ordersCreatedTotal    *prometheus.CounterVec
	orderAmount           prometheus.Histogram
	gatewayRequestsTotal  *prometheus.CounterVec
	gatewayRequestSeconds *prometheus.HistogramVec
	webhooksTotal         *prometheus.CounterVec
	reconcileRetriesTotal prometheus.Counter
}

var (
	globalCollector *Collector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *Collector {
	once.Do(func() {
		globalCollector = newCollector()
	})
	return globalCollector
}

func newCollector() *Collector {
	return &Collector{
		ordersCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created, by payment method",
			},
			[]string{"payment_method"},
		),
		orderAmount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "order_total_amount",
				Help:    "Distribution of order total amounts",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		gatewayRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_requests_total",
				Help: "Outbound payment gateway calls, by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		gatewayRequestSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_gateway_request_duration_seconds",
				Help:    "Outbound payment gateway call duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"channel"},
		),
		webhooksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhooks_total",
				Help: "Inbound payment notifications, by channel and result",
			},
			[]string{"channel", "result"},
		),
		reconcileRetriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_reconcile_retries_total",
				Help: "Reconciliation attempts retried after transient failures",
			},
		),
	}
}

func (c *Collector) OrderCreated(paymentMethod string, amount float64) {
	c.ordersCreatedTotal.WithLabelValues(paymentMethod).Inc()
	c.orderAmount.Observe(amount)
}

func (c *Collector) GatewayRequest(channel, outcome string, seconds float64) {
	c.gatewayRequestsTotal.WithLabelValues(channel, outcome).Inc()
	c.gatewayRequestSeconds.WithLabelValues(channel).Observe(seconds)
}

func (c *Collector) Webhook(channel, result string) {
	c.webhooksTotal.WithLabelValues(channel, result).Inc()
}

func (c *Collector) ReconcileRetry() {
	c.reconcileRetriesTotal.Inc()
}
