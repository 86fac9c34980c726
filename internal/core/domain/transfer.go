package domain

import "github.com/shopspring/decimal"

// Transfer is the write-time intent of moving money between two accounts.
// It is never stored as its own entity; the transfer poster turns it into a
// balanced pair of Transaction rows per occurrence.
type Transfer struct {
	Date        Date
	Amount      decimal.Decimal
	FromAccount Account
	ToAccount   Account
	Description string
	Frequency   Frequency // empty for a one-time transfer
	RepeatStart *Date
	RepeatEnd   *Date
}

// Recurring reports whether the intent describes a recurring transfer.
func (t Transfer) Recurring() bool {
	return t.Frequency != ""
}
