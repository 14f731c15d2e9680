package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Replacer is implemented by stores that can write a batch atomically.
type Replacer interface {
	Replace(ctx context.Context, entries map[string][]byte) error
}

// Records reads and writes JSON records through a KV. Storage failures stop
// here: reads of absent or malformed records report false and writes that
// fail are logged, so callers keep running on in-memory state.
type Records struct {
	kv  KV
	ctx context.Context
}

// NewRecords wraps kv.
func NewRecords(kv KV) *Records {
	return &Records{kv: kv, ctx: context.Background()}
}

// KV returns the underlying store.
func (r *Records) KV() KV {
	return r.kv
}

// Load decodes the record at key into dst. It returns false when the record
// is absent, unreadable or malformed.
func (r *Records) Load(key string, dst any) bool {
	raw, err := r.kv.Get(r.ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("store read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("discarding malformed record", "key", key, "error", err)
		return false
	}
	return true
}

// Save encodes v and writes it at key. Failures are logged and dropped.
func (r *Records) Save(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("store encode failed", "key", key, "error", err)
		return
	}
	if err := r.kv.Put(r.ctx, key, raw); err != nil {
		slog.Warn("store write failed", "key", key, "error", err)
	}
}

// Clear removes the record at key. Failures are logged and dropped.
func (r *Records) Clear(key string) {
	if err := r.kv.Delete(r.ctx, key); err != nil {
		slog.Warn("store delete failed", "key", key, "error", err)
	}
}
