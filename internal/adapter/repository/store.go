package repository

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "edulearn/pkg/errors"
	"edulearn/pkg/logger"
)

// Store failures are retried here, at the client layer, not by callers.
const maxStoreAttempts = 3

const retryBackoff = 100 * time.Millisecond

func isTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

func withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxStoreAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !isTransient(err) {
			return err
		}
		logger.Warn("Transient store error on %s (attempt %d/%d): %v", op, attempt, maxStoreAttempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

// storeErr maps a raw Firestore error onto the application taxonomy,
// keeping deadline expiry distinguishable from other persistence failures.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded {
		return apperrors.Timeout("Timed out while trying to "+op, err)
	}
	return apperrors.Persistence("Failed to "+op, err)
}
