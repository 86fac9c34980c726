package domain

import "github.com/shopspring/decimal"

// SeriesGroup summarizes one recurring series for listing: the shared fields
// plus the materialized occurrence span.
type SeriesGroup struct {
	SeriesID    string          `json:"seriesId"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Account     Account         `json:"account,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"repeat"`
	RepeatStart *Date           `json:"repeatStart,omitempty"`
	RepeatEnd   *Date           `json:"repeatEnd,omitempty"`
	Occurrences int             `json:"occurrences"`
	FirstDate   Date            `json:"firstDate"`
	LastDate    Date            `json:"lastDate"`
}
