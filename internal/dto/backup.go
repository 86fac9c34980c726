package dto

import (
	"time"

	"github.com/spendwise-app/spendwise/internal/core/domain"
)

// BackupPayload is the JSON export/import shape: the full row set plus the
// export timestamp. Import replaces the entire stored collection.
type BackupPayload struct {
	ExportedAt   time.Time            `json:"exportedAt"`
	Count        int                  `json:"count"`
	Transactions []domain.Transaction `json:"transactions"`
}
