// Package observability provides hooks for instrumenting check and cache
// operations without adding hard dependencies on any metrics backend.
//
// Register hooks at startup:
//
//	observability.SetCheckerHooks(&myHooks{})
//
// Libraries and drivers call the accessors to emit events; the defaults are
// no-ops, so uninstrumented binaries pay only an interface call.
package observability

import (
	"context"
	"sync"
	"time"
)

// CheckerHooks receives events from formula evaluation.
type CheckerHooks interface {
	// OnCheckStart records the beginning of a formula evaluation.
	OnCheckStart(ctx context.Context, formula string, stateCount int)

	// OnCheckComplete records a finished evaluation with its duration and
	// satisfaction-set size.
	OnCheckComplete(ctx context.Context, formula string, satCount int, duration time.Duration, err error)
}

// CacheHooks receives events from verdict-cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

type noopCheckerHooks struct{}

func (noopCheckerHooks) OnCheckStart(context.Context, string, int) {}
func (noopCheckerHooks) OnCheckComplete(context.Context, string, int, time.Duration, error) {
}

type noopCacheHooks struct{}

func (noopCacheHooks) OnCacheHit(context.Context, string)      {}
func (noopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (noopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	mu           sync.RWMutex
	checkerHooks CheckerHooks = noopCheckerHooks{}
	cacheHooks   CacheHooks   = noopCacheHooks{}
)

// SetCheckerHooks registers checker instrumentation. Pass nil to reset to
// the no-op implementation.
func SetCheckerHooks(h CheckerHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopCheckerHooks{}
	}
	checkerHooks = h
}

// SetCacheHooks registers cache instrumentation. Pass nil to reset to the
// no-op implementation.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopCacheHooks{}
	}
	cacheHooks = h
}

// Checker returns the registered checker hooks.
func Checker() CheckerHooks {
	mu.RLock()
	defer mu.RUnlock()
	return checkerHooks
}

// CacheEvents returns the registered cache hooks.
func CacheEvents() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
