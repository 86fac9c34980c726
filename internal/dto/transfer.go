package dto

import (
	"github.com/shopspring/decimal"
	"github.com/spendwise-app/spendwise/internal/core/domain"
)

// CreateTransferRequest defines a transfer intent. Repeat fields are only
// consulted when Frequency is set; a one-time transfer posts on Date.
type CreateTransferRequest struct {
	Date        *domain.Date     `json:"date"`
	Amount      decimal.Decimal  `json:"amount" binding:"required"`
	FromAccount domain.Account   `json:"fromAccount" binding:"required"`
	ToAccount   domain.Account   `json:"toAccount" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Frequency   domain.Frequency `json:"repeat" binding:"omitempty,oneof=daily weekly monthly yearly"`
	RepeatStart *domain.Date     `json:"repeatStart"`
	RepeatEnd   *domain.Date     `json:"repeatEnd"`
}

// ToDomain builds the transfer intent. defaultDate supplies the posting
// date of a one-time transfer when the request omits one.
func (r CreateTransferRequest) ToDomain(defaultDate domain.Date) domain.Transfer {
	date := defaultDate
	if r.Date != nil {
		date = *r.Date
	}
	return domain.Transfer{
		Date:        date,
		Amount:      r.Amount,
		FromAccount: r.FromAccount,
		ToAccount:   r.ToAccount,
		Description: r.Description,
		Frequency:   r.Frequency,
		RepeatStart: r.RepeatStart,
		RepeatEnd:   r.RepeatEnd,
	}
}

// TransferResponse returns the posted rows of one transfer request.
type TransferResponse struct {
	Postings []domain.Transaction `json:"postings"`
	Count    int                  `json:"count"`
}
