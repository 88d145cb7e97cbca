package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// StatusCount 按状态统计的订单数
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// DailyRevenue 按自然日统计的已收款总额
type DailyRevenue struct {
	Day    time.Time `db:"day" json:"day"`
	Orders int64     `db:"orders" json:"orders"`
	Gross  float64   `db:"gross" json:"gross"`
}

// ReportRepository 报表只读仓库
// 汇总查询直接走 SQL，不经过 ORM
type ReportRepository interface {
	OrdersByStatus() ([]StatusCount, error)
	PaidRevenueByDay(since time.Time) ([]DailyRevenue, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) OrdersByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Select(&rows, `
		SELECT status, COUNT(*) AS count
		FROM orders
		WHERE deleted_at IS NULL
		GROUP BY status
		ORDER BY status`)
	return rows, err
}

func (r *reportRepository) PaidRevenueByDay(since time.Time) ([]DailyRevenue, error) {
	var rows []DailyRevenue
	err := r.db.Select(&rows, `
		SELECT date_trunc('day', paid_at) AS day,
		       COUNT(*)                   AS orders,
		       COALESCE(SUM(total_amount), 0) AS gross
		FROM orders
		WHERE payment_status = 'PAID'
		  AND paid_at >= $1
		  AND deleted_at IS NULL
		GROUP BY 1
		ORDER BY 1 DESC`, since)
	return rows, err
}
