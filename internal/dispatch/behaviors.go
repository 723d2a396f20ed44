package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"chathub/internal/auth"
	"chathub/internal/database"
	"chathub/internal/result"
	apperrors "chathub/pkg/errors"
)

// Production pipelines. Command order is [Transaction, Logging,
// Authorization, Validation]: the transaction scope opens before any
// other behavior runs and validation is the last gate before the handler.
// NOTE: validating after the transaction is open (and after
// authorization) is preserved observed behavior, kept under design
// review; CommandBehaviors and its ordering test are the contract.
func CommandBehaviors(tm database.TxManager, logger *zap.Logger) []Behavior {
	return []Behavior{
		Transaction(tm),
		Logging(logger),
		Authorization(),
		Validation(),
	}
}

// QueryBehaviors is the command pipeline without the transaction scope;
// queries do not mutate state.
func QueryBehaviors(logger *zap.Logger) []Behavior {
	return []Behavior{
		Logging(logger),
		Authorization(),
		Validation(),
	}
}

// Validation runs the request's Validate method, if any, and fails with
// category Validation without invoking the handler.
func Validation() Behavior {
	return func(ctx context.Context, req any, next HandlerFunc) result.Result[any] {
		if v, ok := req.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return result.Fail[any](apperrors.Validation("VALIDATION_ERROR", err.Error()))
			}
		}
		return next(ctx, req)
	}
}

// Authorizer is implemented by requests that restrict who may issue them.
type Authorizer interface {
	Authorize(p auth.Principal) error
}

// Authorization gates requests implementing Authorizer. A missing
// principal fails Unauthorized; a rejecting principal fails Forbidden.
// Both prevent handler invocation entirely.
func Authorization() Behavior {
	return func(ctx context.Context, req any, next HandlerFunc) result.Result[any] {
		a, ok := req.(Authorizer)
		if !ok {
			return next(ctx, req)
		}
		principal, ok := auth.FromContext(ctx)
		if !ok {
			return result.Fail[any](apperrors.Unauthorized("UNAUTHORIZED", "authentication required"))
		}
		if err := a.Authorize(principal); err != nil {
			return result.Fail[any](apperrors.Forbidden("FORBIDDEN", err.Error()))
		}
		return next(ctx, req)
	}
}

// Logging logs outcome and elapsed time for every request. A panic in
// the rest of the chain is logged with elapsed-time context and surfaced
// as an opaque internal failure; details stay out of the response.
func Logging(logger *zap.Logger) Behavior {
	return func(ctx context.Context, req any, next HandlerFunc) (res result.Result[any]) {
		start := time.Now()
		name := RequestName(req)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("request panicked",
					zap.String("request", name),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
					zap.Duration("elapsed", time.Since(start)))
				res = result.Fail[any](apperrors.Internal("INTERNAL_ERROR", "internal error"))
			}
		}()

		res = next(ctx, req)

		if res.Failed() {
			logger.Warn("request failed",
				zap.String("request", name),
				zap.String("code", res.Err().Code),
				zap.String("category", res.Err().Category.String()),
				zap.Duration("elapsed", time.Since(start)))
		} else {
			logger.Info("request handled",
				zap.String("request", name),
				zap.Duration("elapsed", time.Since(start)))
		}
		return res
	}
}

// Transaction opens the unit of work around the rest of the chain. A
// failure result from inner behaviors or the handler rolls the
// transaction back, so a failed command leaves no durable side effects.
// Nested dispatches flatten into the already-open transaction.
func Transaction(tm database.TxManager) Behavior {
	return func(ctx context.Context, req any, next HandlerFunc) result.Result[any] {
		var res result.Result[any]
		err := tm.WithTx(ctx, func(txCtx context.Context) error {
			res = next(txCtx, req)
			if res.Failed() {
				return res.Err()
			}
			return nil
		})
		if err != nil {
			if res.Failed() {
				return res
			}
			// Begin/commit failure outside the handler's control.
			return result.Fail[any](apperrors.Internal("TX_ERROR", "transaction failed"))
		}
		return res
	}
}
