// Package strategy composes hot and cold tier accesses under a small
// explicit policy matrix. It performs no I/O of its own; callers hand it
// closures over the adapters.
package strategy

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Read selects how a repository read consults the two tiers.
type Read string

const (
	// ReadCacheFirst consults the hot tier and falls back to cold on a
	// miss or a hot transport error, refilling the hot tier best-effort.
	ReadCacheFirst Read = "cache_first"
	// ReadColdOnly skips the hot tier entirely.
	ReadColdOnly Read = "cold_only"
	// ReadHotOnly consults only the hot tier; a miss is an error. Used
	// when stale data is unacceptable and latency is.
	ReadHotOnly Read = "hot_only"
	// ReadThrough always reads cold and populates hot on success.
	ReadThrough Read = "read_through"
)

// Write selects how a repository write touches the two tiers.
type Write string

const (
	// WriteThrough writes cold first, then hot best-effort. The cold
	// tier stays authoritative.
	WriteThrough Write = "write_through"
	// WriteAround writes cold and invalidates the hot entry.
	WriteAround Write = "write_around"
	// WriteBack writes hot first and schedules the cold write on a
	// detached goroutine. A crash between the two loses the cold write.
	WriteBack Write = "write_back"
	// WriteColdOnly writes cold and leaves hot untouched.
	WriteColdOnly Write = "cold_only"
)

// CacheMissError reports a ReadHotOnly miss.
type CacheMissError struct {
	Key string
}

func (e *CacheMissError) Error() string {
	return fmt.Sprintf("cache miss: %s", e.Key)
}

// CacheFn reads the hot tier. A (nil, nil) return is a miss.
type CacheFn[T any] func(ctx context.Context) (*T, error)

// StoreFn reads the cold tier.
type StoreFn[T any] func(ctx context.Context) (T, error)

// PopulateFn refills the hot tier after a cold read.
type PopulateFn[T any] func(ctx context.Context, value T) error

// ReadValue executes one read under the given policy. cache and populate
// may be nil; a nil cache behaves as a permanent miss.
func ReadValue[T any](ctx context.Context, policy Read, log *zap.Logger, key string, cache CacheFn[T], store StoreFn[T], populate PopulateFn[T]) (T, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("executing read",
		zap.String("strategy", string(policy)),
		zap.String("key", key))

	var zero T
	switch policy {
	case ReadColdOnly:
		return store(ctx)

	case ReadHotOnly:
		if cache == nil {
			return zero, &CacheMissError{Key: key}
		}
		hit, err := cache(ctx)
		if err != nil {
			return zero, err
		}
		if hit == nil {
			return zero, &CacheMissError{Key: key}
		}
		return *hit, nil

	case ReadThrough:
		value, err := store(ctx)
		if err != nil {
			return zero, err
		}
		refill(ctx, log, key, populate, value)
		return value, nil

	case ReadCacheFirst:
		fallthrough
	default:
		if cache != nil {
			hit, err := cache(ctx)
			if err != nil {
				log.Warn("hot read failed, falling back to cold",
					zap.String("key", key), zap.Error(err))
			} else if hit != nil {
				log.Debug("cache hit", zap.String("key", key))
				return *hit, nil
			}
		}
		value, err := store(ctx)
		if err != nil {
			return zero, err
		}
		refill(ctx, log, key, populate, value)
		return value, nil
	}
}

func refill[T any](ctx context.Context, log *zap.Logger, key string, populate PopulateFn[T], value T) {
	if populate == nil {
		return
	}
	if err := populate(ctx, value); err != nil {
		log.Warn("hot populate failed", zap.String("key", key), zap.Error(err))
	}
}

// WriteFn applies a write against one tier.
type WriteFn func(ctx context.Context) error

// WriteValue executes one write under the given policy. hot and
// invalidate may be nil.
func WriteValue(ctx context.Context, policy Write, log *zap.Logger, key string, hot, cold, invalidate WriteFn) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("executing write",
		zap.String("strategy", string(policy)),
		zap.String("key", key))

	switch policy {
	case WriteColdOnly:
		return cold(ctx)

	case WriteAround:
		if err := cold(ctx); err != nil {
			return err
		}
		if invalidate != nil {
			if err := invalidate(ctx); err != nil {
				log.Warn("hot invalidate failed after cold write",
					zap.String("key", key), zap.Error(err))
			}
		}
		return nil

	case WriteBack:
		if hot != nil {
			if err := hot(ctx); err != nil {
				return err
			}
		}
		// Detached from the caller's cancellation: the hot write already
		// succeeded, so the cold write must get its chance to land.
		bg := context.WithoutCancel(ctx)
		go func() {
			if err := cold(bg); err != nil {
				log.Error("background cold write failed, data loss risk",
					zap.String("key", key), zap.Error(err))
			}
		}()
		return nil

	case WriteThrough:
		fallthrough
	default:
		if err := cold(ctx); err != nil {
			return err
		}
		if hot != nil {
			if err := hot(ctx); err != nil {
				log.Warn("hot write failed after cold write",
					zap.String("key", key), zap.Error(err))
			}
		}
		return nil
	}
}
