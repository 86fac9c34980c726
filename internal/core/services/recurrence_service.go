package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

var (
	// ErrInvalidRecurrence rejects malformed recurrence templates before
	// any row is materialized.
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// occurrenceNamespace seeds the deterministic UUIDv5 ids of materialized
// occurrences. An occurrence id is a pure function of {seriesID, date}, so
// re-running an expansion can never mint a second id for the same date.
var occurrenceNamespace = uuid.MustParse("7c9e2f0a-41d4-4b8b-9d6e-5a1f03c8b2da")

// recurrenceService materializes series templates into dated occurrence rows
// and keeps each series consistent across edits.
type recurrenceService struct {
	store portssvc.TransactionSvcFacade
}

// NewRecurrenceService creates the recurrence expander on top of the
// transaction store.
func NewRecurrenceService(store portssvc.TransactionSvcFacade) portssvc.RecurrenceSvcFacade {
	return &recurrenceService{store: store}
}

var _ portssvc.RecurrenceSvcFacade = (*recurrenceService)(nil)

// OccurrenceID derives the deterministic row id for one occurrence of a
// series.
func OccurrenceID(seriesID string, date domain.Date) string {
	return uuid.NewSHA1(occurrenceNamespace, []byte(seriesID+":"+date.String())).String()
}

// Schedule walks from start to end inclusive under the frequency's stepping
// rule. start after end yields an empty schedule, not an error: callers are
// expected to reject an inverted range upstream, the expander just produces
// nothing for it.
func (s *recurrenceService) Schedule(freq domain.Frequency, start, end domain.Date) ([]domain.Date, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, freq)
	}

	var dates []domain.Date
	for current := start; !current.After(end.Time); current = freq.Step(current) {
		dates = append(dates, current)
	}
	return dates, nil
}

// expand clones the template once per scheduled date not already
// materialized. Each clone gets the deterministic occurrence id for its
// date, so repeated expansion against the same materialized set is
// idempotent.
func (s *recurrenceService) expand(template domain.Transaction, materialized map[domain.Date]struct{}) ([]domain.Transaction, error) {
	dates, err := s.Schedule(template.Frequency, *template.RepeatStart, *template.RepeatEnd)
	if err != nil {
		return nil, err
	}

	var rows []domain.Transaction
	for _, date := range dates {
		if _, exists := materialized[date]; exists {
			continue
		}
		occurrence := template
		occurrence.ID = OccurrenceID(template.SeriesID, date)
		occurrence.Date = date
		rows = append(rows, occurrence)
		materialized[date] = struct{}{}
	}
	return rows, nil
}

func validateTemplate(template domain.Transaction) error {
	if !template.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidRecurrence, template.Type)
	}
	if !template.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, template.Frequency)
	}
	if template.RepeatStart == nil || template.RepeatEnd == nil {
		return fmt.Errorf("%w: repeat start and end are required", ErrInvalidRecurrence)
	}
	if template.RepeatStart.After(template.RepeatEnd.Time) {
		return fmt.Errorf("%w: repeat start %s is after end %s", ErrInvalidRecurrence, template.RepeatStart, template.RepeatEnd)
	}
	if template.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRecurrence)
	}
	if !template.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRecurrence, template.Category)
	}
	if !template.Account.Valid() {
		return fmt.Errorf("%w: unknown account %q", ErrInvalidRecurrence, template.Account)
	}
	return nil
}

// CreateSeries stores the template row plus every occurrence in one batch.
// The template keeps its own date (which need not equal the repeat start)
// and counts as materialized, so expansion never duplicates it.
func (s *recurrenceService) CreateSeries(ctx context.Context, template domain.Transaction) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if template.SeriesID == "" {
		template.SeriesID = uuid.NewString()
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}

	materialized := map[domain.Date]struct{}{template.Date: {}}
	occurrences, err := s.expand(template, materialized)
	if err != nil {
		return nil, err
	}

	rows := append([]domain.Transaction{template}, occurrences...)
	if err := s.store.AddBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store series %s: %w", template.SeriesID, err)
	}

	logger.Info("Created recurring series",
		slog.String("series_id", template.SeriesID),
		slog.String("frequency", string(template.Frequency)),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// UpdateSeries edits the shared fields of every row in place, then
// re-expands against the updated range. The materialized set is always
// recomputed from the store by series id rather than trusted from the
// caller, so a stale snapshot can never cause duplicate dates. Rows that
// fall outside a shrunk range are kept: shrinking the range does not retract
// past occurrences.
func (s *recurrenceService) UpdateSeries(ctx context.Context, seriesID string, changes domain.SeriesChanges) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if changes.RepeatStart != nil && changes.RepeatEnd != nil &&
		changes.RepeatStart.After(changes.RepeatEnd.Time) {
		return nil, fmt.Errorf("%w: repeat start %s is after end %s", ErrInvalidRecurrence, changes.RepeatStart, changes.RepeatEnd)
	}

	if _, err := s.store.UpdateBySeriesID(ctx, seriesID, changes); err != nil {
		return nil, err
	}

	existing := s.store.FindBySeriesID(ctx, seriesID)
	if len(existing) == 0 {
		return nil, fmt.Errorf("%w: series %s", apperrors.ErrNotFound, seriesID)
	}

	// Shared fields are uniform across the series after the update; any row
	// serves as the template for the new range.
	template := existing[0]
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	materialized := make(map[domain.Date]struct{}, len(existing))
	for _, row := range existing {
		materialized[row.Date] = struct{}{}
	}

	added, err := s.expand(template, materialized)
	if err != nil {
		return nil, err
	}
	if len(added) > 0 {
		if err := s.store.AddBatch(ctx, added); err != nil {
			return nil, fmt.Errorf("failed to store new occurrences for series %s: %w", seriesID, err)
		}
	}

	logger.Info("Updated recurring series",
		slog.String("series_id", seriesID),
		slog.Int("existing_rows", len(existing)),
		slog.Int("added_rows", len(added)))
	return added, nil
}

func (s *recurrenceService) DeleteSeries(ctx context.Context, seriesID string) (int, error) {
	removed, err := s.store.DeleteBySeriesID(ctx, seriesID)
	if err != nil {
		return 0, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Deleted recurring series",
		slog.String("series_id", seriesID),
		slog.Int("rows", removed))
	return removed, nil
}

// ListSeries groups the store's recurring rows by series id, summarizing the
// shared fields and the materialized span of each series.
func (s *recurrenceService) ListSeries(ctx context.Context) []domain.SeriesGroup {
	bySeries := make(map[string][]domain.Transaction)
	var order []string
	for _, row := range s.store.All(ctx) {
		if row.SeriesID == "" {
			continue
		}
		if _, seen := bySeries[row.SeriesID]; !seen {
			order = append(order, row.SeriesID)
		}
		bySeries[row.SeriesID] = append(bySeries[row.SeriesID], row)
	}

	groups := make([]domain.SeriesGroup, 0, len(order))
	for _, seriesID := range order {
		rows := bySeries[seriesID]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date.Time) })

		shared := rows[0]
		group := domain.SeriesGroup{
			SeriesID:    seriesID,
			Category:    shared.Category,
			Description: shared.Description,
			Account:     shared.Account,
			Type:        shared.Type,
			Amount:      shared.Amount,
			Frequency:   shared.Frequency,
			RepeatStart: shared.RepeatStart,
			RepeatEnd:   shared.RepeatEnd,
			Occurrences: len(rows),
			FirstDate:   rows[0].Date,
			LastDate:    rows[len(rows)-1].Date,
		}
		groups = append(groups, group)
	}
	return groups
}
