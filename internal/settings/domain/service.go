package domain

import "context"

// Manager is the single access point for typed configuration values. Writes
// report success as a boolean and never panic; callers must check the result.
type Manager interface {
	Get(ctx context.Context, key string, fallback ...any) (any, error)
	Set(ctx context.Context, key string, value any) bool
	SetMultiple(ctx context.Context, values map[string]any) bool
	Reset(ctx context.Context, key string) (any, error)
	Enabled(ctx context.Context, key string, fallback ...bool) bool
	All(ctx context.Context) (map[string]any, error)
	Grouped(ctx context.Context) (map[string]map[string]Data, error)
	WarmCache(ctx context.Context) bool
}
