package domain

import "github.com/shopspring/decimal"

// TransactionType indicates whether a transaction is money out or money in.
// It determines the sign of the row in aggregate totals.
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// Frequency is the stepping rule of a recurring series.
//
// Monthly and yearly stepping use roll-over semantics (see Date.AddMonths):
// a Jan 31 monthly series lands on Mar 2/3 for February, and a Feb 29 yearly
// series lands on Mar 1 in non-leap years.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Step returns the next occurrence date after d under this frequency.
func (f Frequency) Step(d Date) Date {
	switch f {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case Monthly:
		return d.AddMonths(1)
	case Yearly:
		return d.AddYears(1)
	}
	return d
}

// Transaction is the atomic ledger entry. Rows sharing a SeriesID belong to
// one recurring series and share every field except ID and Date. The two
// postings of a transfer occurrence share a TransferID.
type Transaction struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Account     Account         `json:"account,omitempty"`
	Type        TransactionType `json:"type"`
	SeriesID    string          `json:"seriesId,omitempty"`
	Frequency   Frequency       `json:"repeat,omitempty"`
	RepeatStart *Date           `json:"repeatStart,omitempty"`
	RepeatEnd   *Date           `json:"repeatEnd,omitempty"`
	TransferID  string          `json:"transferId,omitempty"`
}

// Recurring reports whether the row carries a complete recurrence template.
func (t Transaction) Recurring() bool {
	return t.SeriesID != "" && t.Frequency != "" && t.RepeatStart != nil && t.RepeatEnd != nil
}

// SeriesChanges describes an edit to the shared fields of a series. Nil
// fields are left untouched. Date and ID of existing rows are never part of
// a series edit.
type SeriesChanges struct {
	Category    *Category
	Description *string
	Account     *Account
	Amount      *decimal.Decimal
	Frequency   *Frequency
	RepeatStart *Date
	RepeatEnd   *Date
}

// Apply overlays the changes onto a row.
func (c SeriesChanges) Apply(t *Transaction) {
	if c.Category != nil {
		t.Category = *c.Category
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Account != nil {
		t.Account = *c.Account
	}
	if c.Amount != nil {
		t.Amount = *c.Amount
	}
	if c.Frequency != nil {
		t.Frequency = *c.Frequency
	}
	if c.RepeatStart != nil {
		start := *c.RepeatStart
		t.RepeatStart = &start
	}
	if c.RepeatEnd != nil {
		end := *c.RepeatEnd
		t.RepeatEnd = &end
	}
}
