package earnings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the on-demand earnings view for one worker. PendingPayment is
// profit accrued minus salary paid and may be negative when a worker has been
// paid ahead.
type Summary struct {
	TotalEarningsPaid  decimal.Decimal  `json:"total_earnings_paid"`
	TotalProfitAccrued decimal.Decimal  `json:"total_profit_accrued"`
	PendingPayment     decimal.Decimal  `json:"pending_payment"`
	MonthlyProfit      decimal.Decimal  `json:"monthly_profit"`
	SalesToday         decimal.Decimal  `json:"sales_today"`
	SalesWeek          decimal.Decimal  `json:"sales_week"`
	SalesMonth         decimal.Decimal  `json:"sales_month"`
	LastPaymentAmount  *decimal.Decimal `json:"last_payment_amount,omitempty"`
	LastPaymentAt      *time.Time       `json:"last_payment_at,omitempty"`
}

// DashboardSummary aggregates tenant-wide activity for the admin home view.
type DashboardSummary struct {
	SalesToday    decimal.Decimal `json:"sales_today"`
	SalesMonth    decimal.Decimal `json:"sales_month"`
	ProfitToday   decimal.Decimal `json:"profit_today"`
	ProfitMonth   decimal.Decimal `json:"profit_month"`
	ProductCount  int64           `json:"product_count"`
	WorkerCount   int64           `json:"worker_count"`
	LowStockCount int64           `json:"low_stock_count"`
}
