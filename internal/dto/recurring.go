package dto

import (
	"github.com/shopspring/decimal"
	"github.com/spendwise-app/spendwise/internal/core/domain"
)

// CreateRecurringRequest defines a recurring series template. The template's
// own date defaults to the repeat start when omitted.
type CreateRecurringRequest struct {
	Date        *domain.Date           `json:"date"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Category    domain.Category        `json:"category" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Account     domain.Account         `json:"account"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=expense income"`
	Frequency   domain.Frequency       `json:"repeat" binding:"required,oneof=daily weekly monthly yearly"`
	RepeatStart domain.Date            `json:"repeatStart" binding:"required"`
	RepeatEnd   domain.Date            `json:"repeatEnd" binding:"required"`
}

// ToDomain builds the series template row.
func (r CreateRecurringRequest) ToDomain() domain.Transaction {
	date := r.RepeatStart
	if r.Date != nil {
		date = *r.Date
	}
	start := r.RepeatStart
	end := r.RepeatEnd
	return domain.Transaction{
		Date:        date,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Account:     r.Account,
		Type:        r.Type,
		Frequency:   r.Frequency,
		RepeatStart: &start,
		RepeatEnd:   &end,
	}
}

// UpdateSeriesRequest edits the shared fields of a series. Nil fields are
// left untouched; date and id of existing rows never change.
type UpdateSeriesRequest struct {
	Amount      *decimal.Decimal  `json:"amount"`
	Category    *domain.Category  `json:"category"`
	Description *string           `json:"description"`
	Account     *domain.Account   `json:"account"`
	Frequency   *domain.Frequency `json:"repeat" binding:"omitempty,oneof=daily weekly monthly yearly"`
	RepeatStart *domain.Date      `json:"repeatStart"`
	RepeatEnd   *domain.Date      `json:"repeatEnd"`
}

// ToChanges converts the request into domain series changes.
func (r UpdateSeriesRequest) ToChanges() domain.SeriesChanges {
	return domain.SeriesChanges{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Account:     r.Account,
		Frequency:   r.Frequency,
		RepeatStart: r.RepeatStart,
		RepeatEnd:   r.RepeatEnd,
	}
}

// SeriesResponse describes one stored series and its rows.
type SeriesResponse struct {
	SeriesID     string               `json:"seriesId"`
	Transactions []domain.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

// ListSeriesResponse wraps the grouped series listing.
type ListSeriesResponse struct {
	Series []domain.SeriesGroup `json:"series"`
	Count  int                  `json:"count"`
}
