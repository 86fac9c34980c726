package dto

import (
	"github.com/shopspring/decimal"
	"github.com/spendwise-app/spendwise/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record one transaction.
// Date is optional; when absent the row defaults to today per the clock.
type CreateTransactionRequest struct {
	Date        *domain.Date           `json:"date"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Category    domain.Category        `json:"category" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Account     domain.Account         `json:"account"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=expense income"`
}

// ToDomain builds the domain row. id is assigned by the caller and
// defaultDate supplies the date when the request omits one.
func (r CreateTransactionRequest) ToDomain(id string, defaultDate domain.Date) domain.Transaction {
	date := defaultDate
	if r.Date != nil {
		date = *r.Date
	}
	return domain.Transaction{
		ID:          id,
		Date:        date,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Account:     r.Account,
		Type:        r.Type,
	}
}

// UpdateTransactionRequest is a whole-record update of one row. Every
// mutable field must be supplied; there are no partial ledger adjustments.
type UpdateTransactionRequest struct {
	Date        domain.Date            `json:"date" binding:"required"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Category    domain.Category        `json:"category" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Account     domain.Account         `json:"account"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=expense income"`
}

// ToDomain builds the replacement row; ID, SeriesID, TransferID and the
// recurrence template fields are preserved by the store.
func (r UpdateTransactionRequest) ToDomain() domain.Transaction {
	return domain.Transaction{
		Date:        r.Date,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Account:     r.Account,
		Type:        r.Type,
	}
}

// ListTransactionsResponse wraps a row set with its count.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}
