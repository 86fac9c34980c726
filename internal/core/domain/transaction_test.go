package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func datePtr(d domain.Date) *domain.Date {
	return &d
}

func TestTransaction_Recurring(t *testing.T) {
	start := domain.NewDate(2024, time.January, 1)
	end := domain.NewDate(2024, time.June, 1)

	tests := []struct {
		name        string
		transaction domain.Transaction
		want        bool
	}{
		{
			name:        "one-time transaction",
			transaction: domain.Transaction{ID: "t1"},
			want:        false,
		},
		{
			name: "complete recurrence template",
			transaction: domain.Transaction{
				ID:          "t2",
				SeriesID:    "s1",
				Frequency:   domain.Monthly,
				RepeatStart: datePtr(start),
				RepeatEnd:   datePtr(end),
			},
			want: true,
		},
		{
			name: "series row without range (missing repeat end)",
			transaction: domain.Transaction{
				ID:          "t3",
				SeriesID:    "s1",
				Frequency:   domain.Monthly,
				RepeatStart: datePtr(start),
			},
			want: false,
		},
		{
			name: "series membership without frequency",
			transaction: domain.Transaction{
				ID:          "t4",
				SeriesID:    "s1",
				RepeatStart: datePtr(start),
				RepeatEnd:   datePtr(end),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.Recurring())
		})
	}
}

func TestSeriesChanges_Apply(t *testing.T) {
	row := domain.Transaction{
		ID:          "occ-1",
		Date:        domain.NewDate(2024, time.March, 15),
		Amount:      decimal.NewFromInt(20),
		Category:    domain.Food,
		Description: "Lunch",
		Account:     domain.Cash,
		Type:        domain.Expense,
		SeriesID:    "s1",
		Frequency:   domain.Weekly,
	}

	newDesc := "Team lunch"
	newAmount := decimal.NewFromInt(35)
	newAccount := domain.Bank
	changes := domain.SeriesChanges{
		Description: &newDesc,
		Amount:      &newAmount,
		Account:     &newAccount,
	}

	changes.Apply(&row)

	assert.Equal(t, "Team lunch", row.Description)
	assert.True(t, newAmount.Equal(row.Amount))
	assert.Equal(t, domain.Bank, row.Account)
	// Identity and schedule position never move on a series edit.
	assert.Equal(t, "occ-1", row.ID)
	assert.Equal(t, domain.NewDate(2024, time.March, 15), row.Date)
	assert.Equal(t, domain.Food, row.Category)
	assert.Equal(t, domain.Weekly, row.Frequency)
}

func TestFrequency_Step(t *testing.T) {
	tests := []struct {
		name string
		freq domain.Frequency
		from domain.Date
		want domain.Date
	}{
		{"daily", domain.Daily, domain.NewDate(2024, time.February, 28), domain.NewDate(2024, time.February, 29)},
		{"weekly", domain.Weekly, domain.NewDate(2024, time.January, 29), domain.NewDate(2024, time.February, 5)},
		{"monthly", domain.Monthly, domain.NewDate(2024, time.January, 15), domain.NewDate(2024, time.February, 15)},
		{"monthly rolls over short month", domain.Monthly, domain.NewDate(2024, time.January, 31), domain.NewDate(2024, time.March, 2)},
		{"yearly", domain.Yearly, domain.NewDate(2024, time.March, 1), domain.NewDate(2025, time.March, 1)},
		{"yearly from leap day rolls to March 1", domain.Yearly, domain.NewDate(2024, time.February, 29), domain.NewDate(2025, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.freq.Step(tt.from))
		})
	}
}
