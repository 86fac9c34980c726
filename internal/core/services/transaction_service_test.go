package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/core/services"
)

// MockKVStore is a mock type for the KVStore interface
type MockKVStore struct {
	mock.Mock
}

func (m *MockKVStore) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKVStore) Save(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKVStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// memoryKV is a plain in-memory store for tests exercising real round trips
// rather than call expectations.
type memoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return value, nil
}

func (m *memoryKV) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Close() error { return nil }

func newTestRow(date domain.Date, amount int64) domain.Transaction {
	return domain.Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Amount:      decimal.NewFromInt(amount),
		Category:    domain.Food,
		Description: "Groceries",
		Account:     domain.Cash,
		Type:        domain.Expense,
	}
}

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	kv      *memoryKV
	service portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.kv = newMemoryKV()
	suite.service = services.NewTransactionService(suite.kv)
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestLoad_FreshInstall() {
	ctx := context.Background()

	err := suite.service.Load(ctx)

	suite.Require().NoError(err)
	suite.Empty(suite.service.All(ctx))
}

func (suite *TransactionServiceTestSuite) TestAdd_Success() {
	ctx := context.Background()
	row := newTestRow(domain.NewDate(2024, time.January, 15), 42)

	added, err := suite.service.Add(ctx, row)

	suite.Require().NoError(err)
	suite.Equal(row.ID, added.ID)
	suite.Len(suite.service.All(ctx), 1)

	healthy, _ := suite.service.PersistenceHealthy()
	suite.True(healthy)
}

func (suite *TransactionServiceTestSuite) TestAdd_DuplicateID() {
	ctx := context.Background()
	row := newTestRow(domain.NewDate(2024, time.January, 15), 42)

	_, err := suite.service.Add(ctx, row)
	suite.Require().NoError(err)

	_, err = suite.service.Add(ctx, row)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Len(suite.service.All(ctx), 1)
}

func (suite *TransactionServiceTestSuite) TestAddBatch_AllOrNothing() {
	ctx := context.Background()
	existing := newTestRow(domain.NewDate(2024, time.January, 1), 10)
	_, err := suite.service.Add(ctx, existing)
	suite.Require().NoError(err)

	batch := []domain.Transaction{
		newTestRow(domain.NewDate(2024, time.January, 2), 11),
		existing, // collides with the stored row
		newTestRow(domain.NewDate(2024, time.January, 3), 12),
	}

	err = suite.service.AddBatch(ctx, batch)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	// Nothing from the batch is visible, not even the rows before the dup.
	suite.Len(suite.service.All(ctx), 1)
}

func (suite *TransactionServiceTestSuite) TestUpdateByID_PreservesIdentity() {
	ctx := context.Background()
	row := newTestRow(domain.NewDate(2024, time.March, 1), 20)
	row.SeriesID = "series-1"
	_, err := suite.service.Add(ctx, row)
	suite.Require().NoError(err)

	replacement := newTestRow(domain.NewDate(2024, time.March, 5), 25)
	replacement.ID = "ignored"
	replacement.Description = "Edited"

	updated, err := suite.service.UpdateByID(ctx, row.ID, replacement)

	suite.Require().NoError(err)
	suite.Equal(row.ID, updated.ID)
	suite.Equal("series-1", updated.SeriesID)
	suite.Equal(domain.NewDate(2024, time.March, 5), updated.Date)
	suite.Equal("Edited", updated.Description)
}

func (suite *TransactionServiceTestSuite) TestUpdateByID_PreservesLinkageFields() {
	ctx := context.Background()
	start := domain.NewDate(2024, time.March, 1)
	end := domain.NewDate(2024, time.March, 29)
	row := newTestRow(start, 20)
	row.SeriesID = "series-1"
	row.Frequency = domain.Weekly
	row.RepeatStart = &start
	row.RepeatEnd = &end
	row.TransferID = "tr-1"
	_, err := suite.service.Add(ctx, row)
	suite.Require().NoError(err)

	// A whole-record edit carries none of the linkage fields.
	replacement := newTestRow(start, 30)
	replacement.ID = ""
	replacement.Description = "Edited"

	updated, err := suite.service.UpdateByID(ctx, row.ID, replacement)

	suite.Require().NoError(err)
	suite.Equal("series-1", updated.SeriesID)
	suite.Equal("tr-1", updated.TransferID)
	suite.Equal(domain.Weekly, updated.Frequency)
	suite.Require().NotNil(updated.RepeatStart)
	suite.Require().NotNil(updated.RepeatEnd)
	suite.Equal(start, *updated.RepeatStart)
	suite.Equal(end, *updated.RepeatEnd)
	suite.Equal("Edited", updated.Description)
}

func (suite *TransactionServiceTestSuite) TestUpdateByID_NotFound() {
	ctx := context.Background()

	_, err := suite.service.UpdateByID(ctx, "missing", newTestRow(domain.NewDate(2024, time.March, 1), 20))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestDeleteBySeriesID_RemovesOnlyThatSeries() {
	ctx := context.Background()
	var series []domain.Transaction
	for day := 1; day <= 5; day++ {
		row := newTestRow(domain.NewDate(2024, time.April, day), 10)
		row.SeriesID = "series-a"
		series = append(series, row)
	}
	unrelated := newTestRow(domain.NewDate(2024, time.April, 10), 99)
	suite.Require().NoError(suite.service.AddBatch(ctx, append(series, unrelated)))

	removed, err := suite.service.DeleteBySeriesID(ctx, "series-a")

	suite.Require().NoError(err)
	suite.Equal(5, removed)

	remaining := suite.service.All(ctx)
	suite.Require().Len(remaining, 1)
	suite.Equal(unrelated.ID, remaining[0].ID)
}

func (suite *TransactionServiceTestSuite) TestDeleteBySeriesID_NotFound() {
	_, err := suite.service.DeleteBySeriesID(context.Background(), "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestDeleteByTransferID_RemovesBothPostings() {
	ctx := context.Background()
	out := newTestRow(domain.NewDate(2024, time.May, 1), 50)
	out.TransferID = "tr-1"
	in := newTestRow(domain.NewDate(2024, time.May, 1), 50)
	in.TransferID = "tr-1"
	in.Type = domain.Income
	other := newTestRow(domain.NewDate(2024, time.May, 2), 50)
	other.TransferID = "tr-2"
	suite.Require().NoError(suite.service.AddBatch(ctx, []domain.Transaction{out, in, other}))

	removed, err := suite.service.DeleteByTransferID(ctx, "tr-1")

	suite.Require().NoError(err)
	suite.Equal(2, removed)
	suite.Len(suite.service.All(ctx), 1)
}

func (suite *TransactionServiceTestSuite) TestReplaceAll_RejectsDuplicates() {
	ctx := context.Background()
	row := newTestRow(domain.NewDate(2024, time.June, 1), 5)

	err := suite.service.ReplaceAll(ctx, []domain.Transaction{row, row})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *TransactionServiceTestSuite) TestRoundTripPersistence() {
	ctx := context.Background()
	rows := []domain.Transaction{
		newTestRow(domain.NewDate(2024, time.July, 1), 100),
		newTestRow(domain.NewDate(2024, time.July, 2), 200),
	}
	rows[1].Type = domain.Income
	rows[1].Category = domain.Salary
	suite.Require().NoError(suite.service.AddBatch(ctx, rows))
	suite.Require().NoError(suite.service.Flush(ctx))

	reloaded := services.NewTransactionService(suite.kv)
	suite.Require().NoError(reloaded.Load(ctx))

	restored := reloaded.All(ctx)
	suite.Require().Len(restored, 2)
	suite.Equal(rows[0].ID, restored[0].ID)
	suite.Equal(rows[1].ID, restored[1].ID)
	suite.True(rows[0].Amount.Equal(restored[0].Amount))
	suite.Equal(rows[0].Date, restored[0].Date)
	suite.Equal(domain.Income, restored[1].Type)
}

func (suite *TransactionServiceTestSuite) TestPersistFailure_SwallowedAndSurfaced() {
	ctx := context.Background()
	mockKV := new(MockKVStore)
	service := services.NewTransactionService(mockKV)

	writeErr := errors.New("disk full")
	mockKV.On("Save", ctx, services.StorageKey, mock.Anything).Return(writeErr).Once()

	// The mutation itself must succeed even though the write fails.
	_, err := service.Add(ctx, newTestRow(domain.NewDate(2024, time.August, 1), 10))
	suite.Require().NoError(err)
	suite.Len(service.All(ctx), 1)

	healthy, message := service.PersistenceHealthy()
	suite.False(healthy)
	suite.Contains(message, "disk full")

	// A later successful write clears the degraded state.
	mockKV.On("Save", ctx, services.StorageKey, mock.Anything).Return(nil).Once()
	_, err = service.Add(ctx, newTestRow(domain.NewDate(2024, time.August, 2), 10))
	suite.Require().NoError(err)

	healthy, _ = service.PersistenceHealthy()
	suite.True(healthy)

	mockKV.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestFlush_ReturnsWriteError() {
	ctx := context.Background()
	mockKV := new(MockKVStore)
	service := services.NewTransactionService(mockKV)

	mockKV.On("Save", ctx, services.StorageKey, mock.Anything).Return(errors.New("disk full")).Once()

	err := service.Flush(ctx)

	suite.Require().Error(err)
	mockKV.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
