package repositories

import "context"

// KVStore is the persistence collaborator: a key-value store keyed by logical
// name holding a JSON-serialized array of transaction rows. The core reads a
// key at startup and writes the full collection after every mutation.
//
// Load returns apperrors.ErrNotFound when the key has never been written.
type KVStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
