package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

var (
	// ErrInvalidTransfer rejects malformed transfer intents before any
	// posting is written.
	ErrInvalidTransfer = errors.New("invalid transfer")

	ErrSameAccount        = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidTransfer)
	ErrNonPositiveAmount  = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransfer)
	ErrMissingDescription = fmt.Errorf("%w: description is required", ErrInvalidTransfer)
)

// transferPairNamespace seeds the deterministic ids of the two postings of
// an occurrence, derived from the occurrence's transfer id.
var transferPairNamespace = uuid.MustParse("b3a1d7e4-9c52-4f6d-8e0b-2d74c1f9a6e3")

// transferService turns a transfer intent into one balanced posting pair per
// occurrence: an expense on the source account and an income on the
// destination account, both tagged Category Transfer and linked by a shared
// transfer id.
type transferService struct {
	store      portssvc.TransactionSvcFacade
	recurrence portssvc.RecurrenceSvcFacade
}

// NewTransferService creates the transfer poster. Recurring transfers reuse
// the recurrence expander's schedule, so one-time and recurring transfers
// share stepping semantics with recurring transactions.
func NewTransferService(store portssvc.TransactionSvcFacade, recurrence portssvc.RecurrenceSvcFacade) portssvc.TransferSvcFacade {
	return &transferService{store: store, recurrence: recurrence}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func validateTransfer(t domain.Transfer) error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if t.FromAccount == "" || t.ToAccount == "" {
		return fmt.Errorf("%w: both accounts are required", ErrInvalidTransfer)
	}
	if t.FromAccount == t.ToAccount {
		return ErrSameAccount
	}
	if !t.FromAccount.Valid() || !t.ToAccount.Valid() {
		return fmt.Errorf("%w: unknown account", ErrInvalidTransfer)
	}
	if t.Description == "" {
		return ErrMissingDescription
	}
	if t.Recurring() {
		if !t.Frequency.Valid() {
			return fmt.Errorf("%w: unknown frequency %q", ErrInvalidTransfer, t.Frequency)
		}
		if t.RepeatStart == nil || t.RepeatEnd == nil {
			return fmt.Errorf("%w: repeat start and end are required", ErrInvalidTransfer)
		}
		if t.RepeatStart.After(t.RepeatEnd.Time) {
			return fmt.Errorf("%w: repeat start %s is after end %s", ErrInvalidTransfer, t.RepeatStart, t.RepeatEnd)
		}
	}
	return nil
}

// Post validates the intent, expands its occurrence dates (a single date for
// a one-time transfer) and inserts every posting in one batch. Either all
// postings become visible or none do, so a transfer always contributes
// net-zero to the combined income-expense total across accounts.
func (s *transferService) Post(ctx context.Context, transfer domain.Transfer) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateTransfer(transfer); err != nil {
		logger.Warn("Rejected transfer", slog.String("error", err.Error()))
		return nil, err
	}

	dates := []domain.Date{transfer.Date}
	if transfer.Recurring() {
		var err error
		dates, err = s.recurrence.Schedule(transfer.Frequency, *transfer.RepeatStart, *transfer.RepeatEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTransfer, err)
		}
	}

	postings := make([]domain.Transaction, 0, 2*len(dates))
	for _, date := range dates {
		transferID := uuid.NewString()
		postings = append(postings,
			domain.Transaction{
				ID:          uuid.NewSHA1(transferPairNamespace, []byte(transferID+":out")).String(),
				Date:        date,
				Amount:      transfer.Amount,
				Category:    domain.CategoryTransfer,
				Description: fmt.Sprintf("Transfer to %s: %s", transfer.ToAccount, transfer.Description),
				Account:     transfer.FromAccount,
				Type:        domain.Expense,
				TransferID:  transferID,
			},
			domain.Transaction{
				ID:          uuid.NewSHA1(transferPairNamespace, []byte(transferID+":in")).String(),
				Date:        date,
				Amount:      transfer.Amount,
				Category:    domain.CategoryTransfer,
				Description: fmt.Sprintf("Transfer from %s: %s", transfer.FromAccount, transfer.Description),
				Account:     transfer.ToAccount,
				Type:        domain.Income,
				TransferID:  transferID,
			},
		)
	}

	if err := s.store.AddBatch(ctx, postings); err != nil {
		return nil, fmt.Errorf("failed to store transfer postings: %w", err)
	}

	logger.Info("Posted transfer",
		slog.String("from_account", string(transfer.FromAccount)),
		slog.String("to_account", string(transfer.ToAccount)),
		slog.Int("occurrences", len(dates)))
	return postings, nil
}

// DeleteTransfer removes the expense and income postings of one occurrence
// as a single mutation.
func (s *transferService) DeleteTransfer(ctx context.Context, transferID string) (int, error) {
	removed, err := s.store.DeleteByTransferID(ctx, transferID)
	if err != nil {
		return 0, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Deleted transfer pair",
		slog.String("transfer_id", transferID),
		slog.Int("rows", removed))
	return removed, nil
}
