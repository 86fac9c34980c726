package services

import (
	"context"

	"github.com/spendwise-app/spendwise/internal/core/domain"
)

// TransactionSvcFacade is the single source of truth for transaction rows.
// All mutations persist the full collection; persistence failures are logged
// and recorded but never fail the mutation (in-memory state stays
// authoritative for the session).
type TransactionSvcFacade interface {
	// Load initializes the in-memory row set from persistence. Called once
	// at startup.
	Load(ctx context.Context) error

	// Flush writes the current row set to persistence, returning the write
	// error instead of swallowing it. Called at shutdown.
	Flush(ctx context.Context) error

	// Add appends one row.
	Add(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)

	// AddBatch appends several rows as one mutation: either all rows become
	// visible or none do.
	AddBatch(ctx context.Context, txs []domain.Transaction) error

	// UpdateByID replaces the mutable fields of one row. Date may change on
	// a single-occurrence edit; ID, SeriesID, TransferID and the recurrence
	// template fields are preserved.
	UpdateByID(ctx context.Context, id string, updated domain.Transaction) (domain.Transaction, error)

	// UpdateBySeriesID applies shared-field changes to every row of a
	// series, leaving each row's ID and Date untouched. Returns the number
	// of rows updated.
	UpdateBySeriesID(ctx context.Context, seriesID string, changes domain.SeriesChanges) (int, error)

	// DeleteByID removes exactly one row.
	DeleteByID(ctx context.Context, id string) error

	// DeleteBySeriesID removes every row of a series as one mutation.
	// Returns the number of rows removed.
	DeleteBySeriesID(ctx context.Context, seriesID string) (int, error)

	// DeleteByTransferID removes both postings of a transfer occurrence as
	// one mutation. Returns the number of rows removed.
	DeleteByTransferID(ctx context.Context, transferID string) (int, error)

	// FindByID returns one row.
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)

	// FindBySeriesID returns every row of a series in insertion order.
	FindBySeriesID(ctx context.Context, seriesID string) []domain.Transaction

	// All returns the full row set in insertion order. Downstream filtering
	// belongs to the callers, not the store.
	All(ctx context.Context) []domain.Transaction

	// ReplaceAll swaps the entire row set, used by backup restore.
	ReplaceAll(ctx context.Context, txs []domain.Transaction) error

	// PersistenceHealthy reports whether the last persistence write
	// succeeded, and the failure message when it did not.
	PersistenceHealthy() (bool, string)
}

// RecurrenceSvcFacade materializes recurring series templates into dated
// occurrence rows and keeps a series consistent across edits.
type RecurrenceSvcFacade interface {
	// Schedule returns every occurrence date from start to end inclusive
	// under the given frequency. start after end yields an empty schedule.
	Schedule(freq domain.Frequency, start, end domain.Date) ([]domain.Date, error)

	// CreateSeries stores the template row and its materialized occurrences
	// as one batch, assigning a fresh series id. Returns every stored row.
	CreateSeries(ctx context.Context, template domain.Transaction) ([]domain.Transaction, error)

	// UpdateSeries applies shared-field changes to all rows of the series
	// and re-expands against the (possibly new) range; previously
	// materialized rows keep their ID and Date. Returns the newly added
	// rows.
	UpdateSeries(ctx context.Context, seriesID string, changes domain.SeriesChanges) ([]domain.Transaction, error)

	// DeleteSeries removes every row of the series. Returns the number of
	// rows removed.
	DeleteSeries(ctx context.Context, seriesID string) (int, error)

	// ListSeries groups the store's recurring rows by series id.
	ListSeries(ctx context.Context) []domain.SeriesGroup
}

// TransferSvcFacade converts transfer intents into balanced double-entry
// posting pairs.
type TransferSvcFacade interface {
	// Post validates the intent and inserts one expense and one income
	// posting per occurrence, atomically. Returns every posted row.
	Post(ctx context.Context, transfer domain.Transfer) ([]domain.Transaction, error)

	// DeleteTransfer removes both postings of one occurrence by their
	// shared transfer id.
	DeleteTransfer(ctx context.Context, transferID string) (int, error)
}

// ServiceContainer holds instances of all the application services. Handlers
// receive this at route registration.
type ServiceContainer struct {
	Transaction TransactionSvcFacade
	Recurrence  RecurrenceSvcFacade
	Transfer    TransferSvcFacade
	Reporting   ReportingSvcFacade
}
