package kvstore

import "context"

// Entry is one key/value pair returned by a prefix listing. The value
// is the raw JSON document as stored.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a persistent mapping from string keys to JSON documents.
// It is the sole source of truth for all storefront state: credentials,
// rate-limit counters, sessions, menu, orders, and settings. No
// in-process cache sits in front of it, so multiple server instances
// sharing one store stay consistent.
//
// Get returns models.ErrNotFound for absent keys. Set overwrites
// unconditionally; per-key atomicity is assumed from the backend, but
// there is no compare-and-swap, so read-modify-write sequences can
// race across concurrent requests.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	ListByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
