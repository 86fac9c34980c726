package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	store   portssvc.TransactionSvcFacade
	service portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.store = services.NewTransactionService(newMemoryKV())
	// Fixed clock so relative windows are deterministic.
	now := func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC) }
	suite.service = services.NewReportingService(suite.store, now)

	rows := []domain.Transaction{
		{ID: uuid.NewString(), Date: domain.NewDate(2024, time.June, 15), Amount: decimal.NewFromInt(3000), Category: domain.Salary, Description: "June salary", Account: domain.Bank, Type: domain.Income},
		{ID: uuid.NewString(), Date: domain.NewDate(2024, time.June, 14), Amount: decimal.NewFromInt(60), Category: domain.Food, Description: "Weekly groceries", Account: domain.Cash, Type: domain.Expense},
		{ID: uuid.NewString(), Date: domain.NewDate(2024, time.June, 1), Amount: decimal.NewFromInt(40), Category: domain.Transportation, Description: "Fuel", Account: domain.Bank, Type: domain.Expense},
		{ID: uuid.NewString(), Date: domain.NewDate(2024, time.May, 20), Amount: decimal.NewFromInt(120), Category: domain.Food, Description: "Restaurant dinner", Account: domain.Bank, Type: domain.Expense},
		{ID: uuid.NewString(), Date: domain.NewDate(2024, time.February, 1), Amount: decimal.NewFromInt(500), Category: domain.Investment, Description: "Index fund", Account: domain.Bank, Type: domain.Expense},
	}
	suite.Require().NoError(suite.store.AddBatch(context.Background(), rows))
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestSummary_AllTime() {
	summary, err := suite.service.Summary(context.Background(), portssvc.TimeframeAll)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(3000).Equal(summary.TotalIncome))
	suite.True(decimal.NewFromInt(720).Equal(summary.TotalExpenses))
	suite.True(decimal.NewFromInt(2280).Equal(summary.NetBalance))
	suite.Equal(1, summary.IncomeCount)
	suite.Equal(4, summary.ExpenseCount)
}

func (suite *ReportingServiceTestSuite) TestSummary_DailyWindow() {
	summary, err := suite.service.Summary(context.Background(), portssvc.TimeframeDaily)

	suite.Require().NoError(err)
	// Window starts 2024-06-14: the salary and the groceries, not the fuel.
	suite.True(decimal.NewFromInt(3000).Equal(summary.TotalIncome))
	suite.True(decimal.NewFromInt(60).Equal(summary.TotalExpenses))
	suite.Equal(1, summary.ExpenseCount)
}

func (suite *ReportingServiceTestSuite) TestSummary_WeekWindow() {
	summary, err := suite.service.Summary(context.Background(), portssvc.TimeframeWeek)

	suite.Require().NoError(err)
	// Window starts 2024-06-08, so only the salary and the groceries count.
	suite.True(decimal.NewFromInt(3000).Equal(summary.TotalIncome))
	suite.True(decimal.NewFromInt(60).Equal(summary.TotalExpenses))
	suite.Equal(1, summary.ExpenseCount)
}

func (suite *ReportingServiceTestSuite) TestSummary_UnknownTimeframe() {
	_, err := suite.service.Summary(context.Background(), "fortnight")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestByCategory_SortedByTotalDesc() {
	totals, err := suite.service.ByCategory(context.Background(), portssvc.TimeframeAll, domain.Expense)

	suite.Require().NoError(err)
	suite.Require().Len(totals, 3)
	suite.Equal(domain.Investment, totals[0].Category)
	suite.Equal(domain.Food, totals[1].Category)
	suite.True(decimal.NewFromInt(180).Equal(totals[1].Total))
	suite.Equal(2, totals[1].Count)
	suite.Equal(domain.Transportation, totals[2].Category)
}

func (suite *ReportingServiceTestSuite) TestMonthlyTotals() {
	months, err := suite.service.MonthlyTotals(context.Background(), portssvc.TimeframeAll)

	suite.Require().NoError(err)
	suite.Require().Len(months, 3)
	suite.Equal("2024-02", months[0].Month)
	suite.Equal("2024-05", months[1].Month)
	suite.Equal("2024-06", months[2].Month)
	suite.True(decimal.NewFromInt(3000).Equal(months[2].Income))
	suite.True(decimal.NewFromInt(100).Equal(months[2].Expenses))
}

func (suite *ReportingServiceTestSuite) TestSearch_FreeTextOverDescription() {
	rows, err := suite.service.Search(context.Background(), portssvc.SearchFilter{Query: "GROCERIES"})

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("Weekly groceries", rows[0].Description)
}

func (suite *ReportingServiceTestSuite) TestSearch_CombinedFilters() {
	from := domain.NewDate(2024, time.May, 1)
	to := domain.NewDate(2024, time.June, 10)
	rows, err := suite.service.Search(context.Background(), portssvc.SearchFilter{
		Type:    domain.Expense,
		Account: domain.Bank,
		From:    &from,
		To:      &to,
	})

	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	for _, row := range rows {
		suite.Equal(domain.Expense, row.Type)
		suite.Equal(domain.Bank, row.Account)
	}
}

func (suite *ReportingServiceTestSuite) TestSearch_CategoryQueryMatch() {
	// Free text also matches category names.
	rows, err := suite.service.Search(context.Background(), portssvc.SearchFilter{Query: "food"})

	suite.Require().NoError(err)
	suite.Len(rows, 2)
}

func (suite *ReportingServiceTestSuite) TestSearch_UnknownTypeRejected() {
	_, err := suite.service.Search(context.Background(), portssvc.SearchFilter{Type: "refund"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
