package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spendwise-app/spendwise/internal/core/domain"
)

// Timeframe is a relative date window anchored at the clock collaborator's
// "now". Windows match the analytics views of the app.
type Timeframe string

const (
	TimeframeDaily       Timeframe = "daily"
	TimeframeWeek        Timeframe = "week"
	TimeframeMonth       Timeframe = "month"
	TimeframeThreeMonths Timeframe = "3months"
	TimeframeYear        Timeframe = "year"
	TimeframeAll         Timeframe = "all"
)

// Valid reports whether t is a known timeframe. The empty timeframe means
// "all".
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeDaily, TimeframeWeek, TimeframeMonth, TimeframeThreeMonths, TimeframeYear, TimeframeAll, "":
		return true
	}
	return false
}

// SearchFilter narrows the row set. Zero-valued fields are inactive. Query
// matches case-insensitively against description, category and account.
type SearchFilter struct {
	Query     string
	Type      domain.TransactionType
	Category  domain.Category
	Account   domain.Account
	Timeframe Timeframe
	From      *domain.Date
	To        *domain.Date
}

// Summary holds the headline totals of a (filtered) row set.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	IncomeCount   int             `json:"incomeCount"`
	ExpenseCount  int             `json:"expenseCount"`
}

// CategoryTotal is one slice of the per-category breakdown.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthlyTotal is one month of the income/expense trend.
type MonthlyTotal struct {
	Month    string          `json:"month"` // YYYY-MM
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// ReportingSvcFacade provides the analytics and search surface over the
// transaction store.
type ReportingSvcFacade interface {
	Summary(ctx context.Context, timeframe Timeframe) (Summary, error)
	ByCategory(ctx context.Context, timeframe Timeframe, txType domain.TransactionType) ([]CategoryTotal, error)
	MonthlyTotals(ctx context.Context, timeframe Timeframe) ([]MonthlyTotal, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Transaction, error)
}
