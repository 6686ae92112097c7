package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rohmanhakim/film-roulette/pkg/failure"
	"github.com/rohmanhakim/film-roulette/pkg/retry"
	"github.com/rohmanhakim/film-roulette/pkg/timeutil"
)

// testError is a minimal classified error with controllable retryability
type testError struct {
	message   string
	retryable bool
}

func (e *testError) Error() string { return e.message }

func (e *testError) Severity() failure.Severity {
	if e.retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *testError) IsRetryable() bool { return e.retryable }

func fastRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		0,
		0,
		1,
		maxAttempts,
		timeutil.NewBackoffParam(time.Millisecond, 2.0, 5*time.Millisecond),
	)
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := retry.Retry(fastRetryParam(3), func() (string, failure.ClassifiedError) {
		calls++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryRecoversAfterRetryableFailure(t *testing.T) {
	calls := 0
	result, err := retry.Retry(fastRetryParam(3), func() (int, failure.ClassifiedError) {
		calls++
		if calls < 3 {
			return 0, &testError{message: "transient", retryable: true}
		}
		return 7, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 7 {
		t.Errorf("result = %d, want 7", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	fatalErr := &testError{message: "forbidden", retryable: false}
	_, err := retry.Retry(fastRetryParam(5), func() (string, failure.ClassifiedError) {
		calls++
		return "", fatalErr
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if err != failure.ClassifiedError(fatalErr) {
		t.Errorf("expected the original error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error should not be retried, got %d calls", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := retry.Retry(fastRetryParam(3), func() (string, failure.ClassifiedError) {
		calls++
		return "", &testError{message: "still down", retryable: true}
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, &retry.RetryError{}) {
		t.Errorf("expected RetryError, got %T", err)
	}
}

func TestRetryRejectsZeroAttempts(t *testing.T) {
	calls := 0
	_, err := retry.Retry(fastRetryParam(0), func() (string, failure.ClassifiedError) {
		calls++
		return "", nil
	})

	if err == nil {
		t.Fatal("expected error for zero max attempts")
	}
	if calls != 0 {
		t.Errorf("function should never run with zero attempts, got %d calls", calls)
	}
	if !errors.Is(err, &retry.RetryError{}) {
		t.Errorf("expected RetryError, got %T", err)
	}
}
