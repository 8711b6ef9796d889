package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := RateLimit(errors.New("429"))
	kind, ok := KindOf(err)
	if !ok {
		t.Fatal("expected a kinded error")
	}
	if kind != KindRateLimit {
		t.Fatalf("expected %s, got %s", KindRateLimit, kind)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("plain error should not report a kind")
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := Transient(errors.New("socket closed"))
	wrapped := fmt.Errorf("attempt 3: %w", inner)

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindTransient {
		t.Fatalf("expected transient kind through wrapping, got %s ok=%v", kind, ok)
	}
}

func TestErrorMessage_DefaultsPerKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{Transient(errors.New("x")), "Temporary provider error. Please try again."},
		{Exhausted(errors.New("x")), "Translation failed after maximum retries."},
		{Auth(errors.New("x")), "Authentication failed. Please verify your API key and permissions."},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("default message = %q, want %q", got, tc.want)
		}
	}
}

func TestCauseMessage(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := Exhausted(cause)
	if got := CauseMessage(err); got != "connection reset by peer" {
		t.Fatalf("CauseMessage = %q", got)
	}

	plain := errors.New("just text")
	if got := CauseMessage(plain); got != "just text" {
		t.Fatalf("CauseMessage on plain error = %q", got)
	}
	if got := CauseMessage(nil); got != "" {
		t.Fatalf("CauseMessage(nil) = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := BadRequest(cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should reach the cause")
	}
}
