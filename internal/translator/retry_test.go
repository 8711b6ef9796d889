package translator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oukeidos/batrans/internal/apperrors"
	"github.com/oukeidos/batrans/internal/provider"
)

func recordingRetrier(maxRetries int) (*Retrier, *[]time.Duration) {
	r := NewRetrier(maxRetries, time.Second)
	var delays []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return r, &delays
}

func TestRetrier_ExhaustionAttemptsAndBackoff(t *testing.T) {
	p := provider.NewMock("primary", provider.MockResponse{Err: errors.New("boom")})
	r, delays := recordingRetrier(5)

	_, err := r.Translate(context.Background(), p, "hola")
	if !apperrors.Is(err, apperrors.KindExhausted) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if p.Calls() != 5 {
		t.Fatalf("expected exactly 5 attempts, got %d", p.Calls())
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %d (%v)", len(want), len(*delays), *delays)
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("sleep %d = %v, want %v", i, (*delays)[i], d)
		}
	}
}

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	p := provider.NewMock("primary",
		provider.MockResponse{Err: apperrors.Transient(errors.New("temporary"))},
		provider.MockResponse{Err: apperrors.Transient(errors.New("temporary"))},
		provider.MockResponse{Text: "Hello world"},
	)
	r, delays := recordingRetrier(5)

	got, err := r.Translate(context.Background(), p, "Hola mundo")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("translation = %q", got)
	}
	if p.Calls() != 3 {
		t.Fatalf("expected 3 attempts, got %d", p.Calls())
	}
	if len(*delays) != 2 {
		t.Fatalf("expected 2 sleeps, got %v", *delays)
	}
}

func TestRetrier_ExhaustedKeepsLastError(t *testing.T) {
	last := errors.New("connection reset by peer")
	p := provider.NewMock("primary", provider.MockResponse{Err: last})
	r, _ := recordingRetrier(2)

	_, err := r.Translate(context.Background(), p, "hola")
	if !errors.Is(err, last) {
		t.Fatalf("exhausted error should wrap the last attempt error, got %v", err)
	}
	if got := apperrors.CauseMessage(err); got != "connection reset by peer" {
		t.Fatalf("cause message = %q", got)
	}
}

func TestRetrier_StopsOnCancellation(t *testing.T) {
	p := provider.NewMock("primary", provider.MockResponse{Err: errors.New("boom")})
	r := NewRetrier(5, time.Second)
	r.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Translate(ctx, p, "hola")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if p.Calls() != 1 {
		t.Fatalf("expected a single attempt before cancellation, got %d", p.Calls())
	}
}

func TestNewRetrier_Defaults(t *testing.T) {
	r := NewRetrier(0, 0)
	if r.maxRetries != DefaultMaxRetries {
		t.Errorf("maxRetries = %d, want %d", r.maxRetries, DefaultMaxRetries)
	}
	if r.unit != DefaultBackoffUnit {
		t.Errorf("unit = %v, want %v", r.unit, DefaultBackoffUnit)
	}
}
