package cache

import (
	"context"
	"time"
)

// Store is the settings cache driver contract. Values are the storage-form
// strings produced by the setting's declared type, never rich objects.
//
// TTL semantics: ttl == 0 uses the driver default; a resolved TTL <= 0 on the
// in-memory driver means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetMultiple(ctx context.Context, keys []string) (map[string]string, error)
	SetMultiple(ctx context.Context, values map[string]string, ttl time.Duration) error
}

// getMultiple is the sequential fallback for drivers without a native batch read.
func getMultiple(ctx context.Context, s Store, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = value
		}
	}
	return out, nil
}

// setMultiple is the sequential fallback for drivers without a native batch write.
func setMultiple(ctx context.Context, s Store, values map[string]string, ttl time.Duration) error {
	for key, value := range values {
		if err := s.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}
