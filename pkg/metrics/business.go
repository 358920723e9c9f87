package metrics

import "github.com/prometheus/client_golang/prometheus"

// BusinessMetrics tracks domain-level counters.
type BusinessMetrics struct {
	salesRecorded  *prometheus.CounterVec
	stockConflicts prometheus.Counter
	expenseDecided *prometheus.CounterVec
	salaryPayments prometheus.Counter
}

// NewBusinessMetrics registers the domain counters on the provided registerer.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	if reg == nil {
		return &BusinessMetrics{}
	}
	salesRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_recorded_total",
		Help: "Sale line items persisted.",
	}, []string{"payment_method"})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_stock_conflicts_total",
		Help: "Sale carts rejected for insufficient stock.",
	})
	expenseDecided := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expense_requests_decided_total",
		Help: "Expense request decisions recorded.",
	}, []string{"status"})
	salaryPayments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salary_payments_total",
		Help: "Salary payments recorded.",
	})
	reg.MustRegister(salesRecorded, stockConflicts, expenseDecided, salaryPayments)
	return &BusinessMetrics{
		salesRecorded:  salesRecorded,
		stockConflicts: stockConflicts,
		expenseDecided: expenseDecided,
		salaryPayments: salaryPayments,
	}
}

// IncSaleRecorded increments the sale counter for the payment method.
func (b *BusinessMetrics) IncSaleRecorded(paymentMethod string) {
	if b == nil || b.salesRecorded == nil {
		return
	}
	b.salesRecorded.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStockConflict increments the insufficient-stock counter.
func (b *BusinessMetrics) IncStockConflict() {
	if b == nil || b.stockConflicts == nil {
		return
	}
	b.stockConflicts.Inc()
}

// IncExpenseDecided increments the decision counter for the status.
func (b *BusinessMetrics) IncExpenseDecided(status string) {
	if b == nil || b.expenseDecided == nil {
		return
	}
	b.expenseDecided.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncSalaryPayment increments the salary payment counter.
func (b *BusinessMetrics) IncSalaryPayment() {
	if b == nil || b.salaryPayments == nil {
		return
	}
	b.salaryPayments.Inc()
}
