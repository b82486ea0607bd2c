package services

import (
	"context"
	"errors"
	"time"

	"github.com/remotevoters/api/internal/core/domain"
)

// lookupRetries bounds how many extra attempts a read-only lookup makes
// when the store is unavailable. Cascades never retry internally; they are
// idempotent, so retrying is left to the caller.
const lookupRetries = 2

func retryLookup[T any](ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	var last T
	var err error
	for attempt := 0; ; attempt++ {
		last, err = op(ctx)
		if err == nil || !errors.Is(err, domain.ErrStoreUnavailable) || attempt >= lookupRetries {
			return last, err
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 100 * time.Millisecond):
		}
	}
}
