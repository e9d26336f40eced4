// Package storage provides the durable key-value capability the session
// and cart stores persist through, plus the volatile per-tab slot used
// for tab identity. The durable store is shared process-wide; callers
// namespace their keys with a tab identity so concurrent tabs never
// contend on the same rows.
package storage

import "context"

// Store is the durable key-value capability. Values are opaque strings
// (the stores write JSON). A missing key is ("", false, nil), never an
// error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error

	// SetMany writes all pairs in a single transaction, so a multi-key
	// persist (e.g. the three session keys) is never observed half-done.
	SetMany(ctx context.Context, values map[string]string) error
}

// Slot is the volatile per-tab value holder backing tab identity. It
// lives for the tab's lifetime only: not shared across tabs, not
// persisted across restarts.
type Slot interface {
	Get() (string, bool)
	Set(value string) error
}
