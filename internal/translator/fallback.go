package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/oukeidos/batrans/internal/apperrors"
	"github.com/oukeidos/batrans/internal/logger"
	"github.com/oukeidos/batrans/internal/provider"
)

// Fallback orchestrates the primary provider and, once its retries are
// exhausted, the fallback provider over the same original text.
type Fallback struct {
	primary  provider.Provider
	fallback provider.Provider
	retrier  *Retrier
}

func NewFallback(primary, fallback provider.Provider, retrier *Retrier) *Fallback {
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		retrier:  retrier,
	}
}

// Translate resolves one row's text to a tagged Result. Empty input
// short-circuits to an empty success without touching any provider. The
// returned error is non-nil only for context cancellation; every provider
// failure, and even a panic below this boundary, becomes a Result failure
// so a single row can never abort the batch.
func (f *Fallback) Translate(ctx context.Context, text string, index int) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Recovered panic during translation", "index", index, "panic", rec)
			result = Failed(FailureUnexpected, fmt.Sprint(rec))
			err = nil
		}
	}()

	if text == "" {
		return Success(""), nil
	}

	out, perr := f.retrier.Translate(ctx, f.primary, text)
	if perr == nil {
		return Success(out), nil
	}
	if isCancellation(perr) {
		return Result{}, perr
	}

	logger.Warn("Primary provider exhausted, trying fallback",
		"index", index, "primary", f.primary.Name(), "fallback", f.fallback.Name(), "error", perr)

	out, ferr := f.retrier.Translate(ctx, f.fallback, text)
	if ferr == nil {
		return Success(out), nil
	}
	if isCancellation(ferr) {
		return Result{}, ferr
	}
	return failureFor(ferr), nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

func failureFor(err error) Result {
	kind, _ := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindExhausted:
		return Failed(FailureExhausted, apperrors.CauseMessage(err))
	case apperrors.KindTransient, apperrors.KindRateLimit:
		return Failed(FailureNetwork, apperrors.PublicMessage(err))
	default:
		return Failed(FailureUnexpected, apperrors.PublicMessage(err))
	}
}
