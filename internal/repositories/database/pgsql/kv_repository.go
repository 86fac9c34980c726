package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	portsrepo "github.com/spendwise-app/spendwise/internal/core/ports/repositories"
)

// PgxKVRepository is the PostgreSQL persistence collaborator: each logical
// key maps to one row of the kv_store table holding the JSON-serialized
// collection. The table is created by the golang-migrate migrations under
// migrations/.
type PgxKVRepository struct {
	Pool *pgxpool.Pool
}

// NewKVRepository creates a new repository backed by the given pool.
func NewKVRepository(pool *pgxpool.Pool) portsrepo.KVStore {
	return &PgxKVRepository{Pool: pool}
}

var _ portsrepo.KVStore = (*PgxKVRepository)(nil)

func (r *PgxKVRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM kv_store WHERE key = $1;`
	err := r.Pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to load key %s: %w", key, err)
	}
	return value, nil
}

func (r *PgxKVRepository) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();
	`
	if _, err := r.Pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save key %s: %w", key, err)
	}
	return nil
}

func (r *PgxKVRepository) Close() error {
	r.Pool.Close()
	return nil
}
