// Package provider defines the capability every external translation
// service must offer. Providers are configured once for a fixed
// source→target pair and are stateless per call.
package provider

import "context"

// Provider translates a single text, or fails. Failures should be
// classified through apperrors at the client boundary so callers can
// distinguish transport problems from provider rejections.
type Provider interface {
	// Name identifies the provider in logs and failure details.
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}
