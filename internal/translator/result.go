package translator

import "strings"

// FailureKind classifies why a row could not be translated.
type FailureKind string

const (
	// FailureExhausted means both retry loops gave up.
	FailureExhausted FailureKind = "exhausted"
	// FailureNetwork means a transport-level problem surfaced outside the
	// retry boundary.
	FailureNetwork FailureKind = "network"
	// FailureUnexpected covers anything else, including recovered panics.
	FailureUnexpected FailureKind = "unexpected"
)

// Result is the tagged outcome of translating one row. It carries either
// the translated text or a failure; marker strings are rendered from it
// only when the dataset is serialized, never compared mid-pipeline.
type Result struct {
	Text    string
	Failure *Failure
}

type Failure struct {
	Kind   FailureKind
	Detail string
}

func Success(text string) Result {
	return Result{Text: text}
}

func Failed(kind FailureKind, detail string) Result {
	return Result{Failure: &Failure{Kind: kind, Detail: detail}}
}

func (r Result) Ok() bool {
	return r.Failure == nil
}

// Marker prefixes recognized in persisted data. A cell starting with any of
// these is a terminal failure and is never retried on resume.
var markerPrefixes = []string{
	"Translation failed",
	"Network error",
	"Unexpected error",
}

// Marker renders the value stored in the translated column: the text on
// success, otherwise a human-readable sentinel embedding the failure detail.
func (r Result) Marker() string {
	if r.Failure == nil {
		return r.Text
	}
	switch r.Failure.Kind {
	case FailureExhausted:
		return "Translation failed: " + r.Failure.Detail
	case FailureNetwork:
		return "Network error: " + r.Failure.Detail
	default:
		return "Unexpected error: " + r.Failure.Detail
	}
}

// IsFailureMarker reports whether a persisted cell records a failure.
func IsFailureMarker(s string) bool {
	for _, prefix := range markerPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
