package worker

import (
	"time"

	"shop_order_payment/pkg/errs"
	"shop_order_payment/pkg/logger"
	"shop_order_payment/pkg/metrics"

	"go.uber.org/zap"
)

// ReconcileTask 一次待落库的支付对账结果
type ReconcileTask struct {
	Channel      string
	OrderCode    string
	Paid         bool
	Amount       float64
	ProviderTxID string
	Retry        int // 重试次数
}

// Applier 执行单次对账写入（由 payment 模块的 Reconciler 实现）
type Applier interface {
	ApplyOnce(task ReconcileTask) error
}

// Pool 对账重试池
// 网关验签失败是永久错误，永远不会进入这里；
// 这里只消化状态写入时的瞬时存储故障，有限次退避重试后进入死信日志
type Pool struct {
	TaskQueue  chan ReconcileTask
	RetryQueue chan ReconcileTask
	applier    Applier
	WorkerNum  int
	MaxRetry   int
}

func NewPool(applier Applier, workerNum int, bufferSize int) *Pool {
	return &Pool{
		TaskQueue:  make(chan ReconcileTask, bufferSize),
		RetryQueue: make(chan ReconcileTask, bufferSize/2),
		applier:    applier,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	logger.Log.Info("Reconcile pool started", zap.Int("workers", p.WorkerNum))
}

func (p *Pool) worker(id int) {
	for task := range p.TaskQueue {
		err := p.applier.ApplyOnce(task)
		if err == nil {
			continue
		}

		if !Retryable(err) {
			// 状态冲突、订单不存在等永久错误：记日志告警，不重试
			logger.Log.Warn("Reconcile task rejected permanently",
				zap.Int("worker", id),
				zap.String("order_code", task.OrderCode),
				zap.Error(err))
			continue
		}

		if task.Retry < p.MaxRetry {
			task.Retry++
			metrics.GetGlobalCollector().ReconcileRetry()
			select {
			case p.RetryQueue <- task:
			default:
				logger.Log.Error("Retry queue full, task dropped",
					zap.Int("worker", id), zap.String("order_code", task.OrderCode))
				p.logDeadLetter(task, err)
			}
		} else {
			p.logDeadLetter(task, err)
		}
	}
}

func (p *Pool) retryWorker() {
	for task := range p.RetryQueue {
		// 线性退避，避免立即重试打到同一个故障点
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.TaskQueue <- task:
		default:
			logger.Log.Error("Main queue full, task dropped",
				zap.String("order_code", task.OrderCode))
			p.logDeadLetter(task, nil)
		}
	}
}

// AddTask 任务入队；队列满时直接进死信日志，由外部对账作业兜底
func (p *Pool) AddTask(task ReconcileTask) {
	select {
	case p.TaskQueue <- task:
	default:
		p.logDeadLetter(task, errs.New(errs.KindReconciliationFailed, "reconcile queue full"))
	}
}

func (p *Pool) logDeadLetter(task ReconcileTask, err error) {
	// 死信只记日志，离线对账作业会拿网关账单兜底
	logger.Log.Error("Reconcile task failed permanently",
		zap.String("channel", task.Channel),
		zap.String("order_code", task.OrderCode),
		zap.Bool("paid", task.Paid),
		zap.Int("retry", task.Retry),
		zap.Error(err))
}

// Retryable 判断错误是否值得重试：只有内部/瞬时错误重试
func Retryable(err error) bool {
	switch errs.KindOf(err) {
	case errs.KindInternal, errs.KindReconciliationFailed, errs.KindGatewayUnavailable:
		return true
	}
	return false
}
