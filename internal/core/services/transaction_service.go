package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	portsrepo "github.com/spendwise-app/spendwise/internal/core/ports/repositories"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

// StorageKey is the logical name the full transaction collection is
// persisted under.
const StorageKey = "transactions"

// transactionService owns the canonical in-memory row set and mirrors it to
// the key-value store after every mutation. A single mutex serializes
// mutations so concurrent HTTP surfaces touching the same series cannot
// violate the no-duplicate-date invariant.
type transactionService struct {
	mu         sync.RWMutex
	rows       []domain.Transaction
	kv         portsrepo.KVStore
	storageKey string

	persistErr error // last persistence failure, nil when healthy
}

// NewTransactionService creates the transaction store backed by the given
// key-value store.
func NewTransactionService(kv portsrepo.KVStore) portssvc.TransactionSvcFacade {
	return &transactionService{
		kv:         kv,
		storageKey: StorageKey,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// Load reads the persisted collection. A missing key is a fresh install, not
// an error.
func (s *transactionService) Load(ctx context.Context) error {
	data, err := s.kv.Load(ctx, s.storageKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.mu.Lock()
			s.rows = nil
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	var rows []domain.Transaction
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to decode persisted transactions: %w", err)
	}

	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	return nil
}

// Flush persists the current row set and reports the write error, unlike the
// swallow-and-log behavior of regular mutations. Used at shutdown.
func (s *transactionService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}

func (s *transactionService) Add(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if tx.ID == "" {
		return domain.Transaction{}, fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rows {
		if existing.ID == tx.ID {
			return domain.Transaction{}, fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, tx.ID)
		}
	}
	s.rows = append(s.rows, tx)
	s.persistLocked(ctx)
	return tx, nil
}

func (s *transactionService) AddBatch(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.rows)+len(txs))
	for _, existing := range s.rows {
		seen[existing.ID] = struct{}{}
	}
	for _, tx := range txs {
		if tx.ID == "" {
			return fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
		}
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}

	s.rows = append(s.rows, txs...)
	s.persistLocked(ctx)
	return nil
}

// UpdateByID is a whole-record field update of one row. ID and the linkage
// fields (SeriesID, TransferID and the recurrence template) are preserved so
// an independently edited occurrence still belongs to its series, its date
// counts as materialized on the next regeneration pass, and a transfer leg
// keeps its pair.
func (s *transactionService) UpdateByID(ctx context.Context, id string, updated domain.Transaction) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		updated.ID = id
		if updated.SeriesID == "" {
			updated.SeriesID = s.rows[i].SeriesID
		}
		if updated.TransferID == "" {
			updated.TransferID = s.rows[i].TransferID
		}
		if updated.Frequency == "" {
			updated.Frequency = s.rows[i].Frequency
		}
		if updated.RepeatStart == nil {
			updated.RepeatStart = s.rows[i].RepeatStart
		}
		if updated.RepeatEnd == nil {
			updated.RepeatEnd = s.rows[i].RepeatEnd
		}
		s.rows[i] = updated
		s.persistLocked(ctx)
		return s.rows[i], nil
	}
	return domain.Transaction{}, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
}

func (s *transactionService) UpdateBySeriesID(ctx context.Context, seriesID string, changes domain.SeriesChanges) (int, error) {
	if seriesID == "" {
		return 0, fmt.Errorf("%w: series id is required", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.rows {
		if s.rows[i].SeriesID != seriesID {
			continue
		}
		changes.Apply(&s.rows[i])
		updated++
	}
	if updated == 0 {
		return 0, fmt.Errorf("%w: series %s", apperrors.ErrNotFound, seriesID)
	}
	s.persistLocked(ctx)
	return updated, nil
}

func (s *transactionService) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
}

func (s *transactionService) DeleteBySeriesID(ctx context.Context, seriesID string) (int, error) {
	if seriesID == "" {
		return 0, fmt.Errorf("%w: series id is required", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[:0]
	removed := 0
	for _, row := range s.rows {
		if row.SeriesID == seriesID {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: series %s", apperrors.ErrNotFound, seriesID)
	}
	s.rows = kept
	s.persistLocked(ctx)
	return removed, nil
}

func (s *transactionService) DeleteByTransferID(ctx context.Context, transferID string) (int, error) {
	if transferID == "" {
		return 0, fmt.Errorf("%w: transfer id is required", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[:0]
	removed := 0
	for _, row := range s.rows {
		if row.TransferID == transferID {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: transfer %s", apperrors.ErrNotFound, transferID)
	}
	s.rows = kept
	s.persistLocked(ctx)
	return removed, nil
}

func (s *transactionService) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.rows {
		if s.rows[i].ID == id {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
}

func (s *transactionService) FindBySeriesID(ctx context.Context, seriesID string) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []domain.Transaction
	for _, row := range s.rows {
		if row.SeriesID == seriesID {
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *transactionService) All(ctx context.Context) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.Transaction, len(s.rows))
	copy(rows, s.rows)
	return rows
}

func (s *transactionService) ReplaceAll(ctx context.Context, txs []domain.Transaction) error {
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			return fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
		}
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]domain.Transaction(nil), txs...)
	s.persistLocked(ctx)
	return nil
}

func (s *transactionService) PersistenceHealthy() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.persistErr != nil {
		return false, s.persistErr.Error()
	}
	return true, ""
}

// persistLocked writes the full collection after a mutation. Write failures
// are logged and recorded but never propagated: the in-memory state stays
// authoritative for the session and the caller is not blocked. The recorded
// failure is surfaced through PersistenceHealthy so callers can warn that
// changes may not survive a restart.
func (s *transactionService) persistLocked(ctx context.Context) {
	if err := s.writeLocked(ctx); err != nil {
		s.persistErr = err
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to persist transactions, in-memory state remains authoritative",
			slog.String("error", err.Error()),
			slog.Int("rows", len(s.rows)))
		return
	}
	s.persistErr = nil
}

func (s *transactionService) writeLocked(ctx context.Context) error {
	data, err := json.Marshal(s.rows)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	if err := s.kv.Save(ctx, s.storageKey, data); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}
	return nil
}
