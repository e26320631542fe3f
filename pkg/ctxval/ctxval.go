// Package ctxval keeps a mutable bag of request scoped values behind an
// immutable context, so inner handlers can report facts to outer middleware.
package ctxval

import (
	"context"
	"sync"
)

type ctxKey struct{}

var defKey = ctxKey{}

// Wrap attaches an empty bag to ctx. Wrapping twice keeps the first bag.
func Wrap(ctx context.Context) context.Context {
	if _, ok := getBag(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, defKey, &bag{values: make(map[any]any)})
}

// Set is a no-op on contexts that were never wrapped.
func Set[K comparable, V any](ctx context.Context, k K, v V) {
	b, ok := getBag(ctx)
	if !ok {
		return
	}
	b.set(k, v)
}

func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	b, ok := getBag(ctx)
	if !ok {
		return *new(V), false
	}
	v, ok := b.get(k).(V)
	return v, ok
}

// Range calls fn for every value in the order keys were first set, stopping
// when fn returns false.
func Range(ctx context.Context, fn func(k, v any) bool) {
	b, ok := getBag(ctx)
	if !ok {
		return
	}
	b.mu.RLock()
	keys := append([]any(nil), b.keys...)
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = b.values[k]
	}
	b.mu.RUnlock()

	for i, k := range keys {
		if !fn(k, values[i]) {
			return
		}
	}
}

type bag struct {
	mu     sync.RWMutex
	keys   []any
	values map[any]any
}

func (b *bag) get(key any) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[key]
}

func (b *bag) set(key, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

func getBag(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(defKey).(*bag)
	return b, ok
}
