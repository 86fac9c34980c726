package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
)

// reportingService computes analytics windows and search filters over the
// transaction store. "now" comes from an injected clock so relative windows
// are testable.
type reportingService struct {
	store portssvc.TransactionSvcFacade
	now   func() time.Time
}

// NewReportingService creates the reporting service. now may be nil, in
// which case the wall clock is used.
func NewReportingService(store portssvc.TransactionSvcFacade, now func() time.Time) portssvc.ReportingSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &reportingService{store: store, now: now}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// windowStart translates a relative timeframe into its inclusive lower
// bound. The second return is false for the unbounded "all" window.
func (s *reportingService) windowStart(timeframe portssvc.Timeframe) (domain.Date, bool) {
	today := domain.DateOf(s.now())
	switch timeframe {
	case portssvc.TimeframeDaily:
		// "daily" reaches one day back, like the other relative windows.
		return today.AddDays(-1), true
	case portssvc.TimeframeWeek:
		return today.AddDays(-7), true
	case portssvc.TimeframeMonth:
		return today.AddMonths(-1), true
	case portssvc.TimeframeThreeMonths:
		return today.AddMonths(-3), true
	case portssvc.TimeframeYear:
		return today.AddYears(-1), true
	}
	return domain.Date{}, false
}

func (s *reportingService) rowsInWindow(ctx context.Context, timeframe portssvc.Timeframe) ([]domain.Transaction, error) {
	if !timeframe.Valid() {
		return nil, fmt.Errorf("%w: unknown timeframe %q", apperrors.ErrValidation, timeframe)
	}

	rows := s.store.All(ctx)
	start, bounded := s.windowStart(timeframe)
	if !bounded {
		return rows, nil
	}

	filtered := rows[:0]
	for _, row := range rows {
		if !row.Date.Before(start.Time) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

func (s *reportingService) Summary(ctx context.Context, timeframe portssvc.Timeframe) (portssvc.Summary, error) {
	rows, err := s.rowsInWindow(ctx, timeframe)
	if err != nil {
		return portssvc.Summary{}, err
	}

	summary := portssvc.Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Type {
		case domain.Income:
			summary.TotalIncome = summary.TotalIncome.Add(row.Amount)
			summary.IncomeCount++
		case domain.Expense:
			summary.TotalExpenses = summary.TotalExpenses.Add(row.Amount)
			summary.ExpenseCount++
		}
	}
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary, nil
}

func (s *reportingService) ByCategory(ctx context.Context, timeframe portssvc.Timeframe, txType domain.TransactionType) ([]portssvc.CategoryTotal, error) {
	if txType != "" && !txType.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txType)
	}
	rows, err := s.rowsInWindow(ctx, timeframe)
	if err != nil {
		return nil, err
	}

	totals := make(map[domain.Category]*portssvc.CategoryTotal)
	for _, row := range rows {
		if txType != "" && row.Type != txType {
			continue
		}
		entry, ok := totals[row.Category]
		if !ok {
			entry = &portssvc.CategoryTotal{Category: row.Category, Total: decimal.Zero}
			totals[row.Category] = entry
		}
		entry.Total = entry.Total.Add(row.Amount)
		entry.Count++
	}

	result := make([]portssvc.CategoryTotal, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (s *reportingService) MonthlyTotals(ctx context.Context, timeframe portssvc.Timeframe) ([]portssvc.MonthlyTotal, error) {
	rows, err := s.rowsInWindow(ctx, timeframe)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*portssvc.MonthlyTotal)
	for _, row := range rows {
		month := row.Date.MonthKey()
		entry, ok := byMonth[month]
		if !ok {
			entry = &portssvc.MonthlyTotal{Month: month, Income: decimal.Zero, Expenses: decimal.Zero}
			byMonth[month] = entry
		}
		switch row.Type {
		case domain.Income:
			entry.Income = entry.Income.Add(row.Amount)
		case domain.Expense:
			entry.Expenses = entry.Expenses.Add(row.Amount)
		}
	}

	result := make([]portssvc.MonthlyTotal, 0, len(byMonth))
	for _, entry := range byMonth {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

// Search applies every active filter in combination, mirroring the search
// view: free text over description/category/account, exact type, category
// and account matches, a relative timeframe and an absolute date range.
func (s *reportingService) Search(ctx context.Context, filter portssvc.SearchFilter) ([]domain.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, filter.Type)
	}
	rows, err := s.rowsInWindow(ctx, filter.Timeframe)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		if query != "" &&
			!strings.Contains(strings.ToLower(row.Description), query) &&
			!strings.Contains(strings.ToLower(string(row.Category)), query) &&
			!strings.Contains(strings.ToLower(string(row.Account)), query) {
			continue
		}
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		if filter.Category != "" && row.Category != filter.Category {
			continue
		}
		if filter.Account != "" && row.Account != filter.Account {
			continue
		}
		if filter.From != nil && row.Date.Before(filter.From.Time) {
			continue
		}
		if filter.To != nil && row.Date.After(filter.To.Time) {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}
