package services

import (
	"time"

	portsrepo "github.com/spendwise-app/spendwise/internal/core/ports/repositories"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
)

// NewContainer wires the full service graph on top of one key-value store.
// The transaction store is the shared dependency; recurrence, transfer and
// reporting are layered over it.
func NewContainer(kv portsrepo.KVStore, now func() time.Time) *portssvc.ServiceContainer {
	store := NewTransactionService(kv)
	recurrence := NewRecurrenceService(store)

	return &portssvc.ServiceContainer{
		Transaction: store,
		Recurrence:  recurrence,
		Transfer:    NewTransferService(store, recurrence),
		Reporting:   NewReportingService(store, now),
	}
}
