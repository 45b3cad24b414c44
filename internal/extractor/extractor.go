package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
)

// ErrorKind classifies a failed extraction. The buckets are independent of
// the fetch-stage taxonomy and the two are never conflated.
type ErrorKind string

const (
	KindMalformedOutput ErrorKind = "malformed_output"
	KindAuthError       ErrorKind = "auth_error"
	KindQuotaExceeded   ErrorKind = "quota_exceeded"
	KindRateLimited     ErrorKind = "rate_limited"
	KindGeneric         ErrorKind = "generic"
)

// Error is a classified extraction failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Message)
}

// Classifier maps a raw failure message to an ErrorKind, pluggable for the
// same reason as the fetch-stage classifier.
type Classifier func(message string) ErrorKind

// DefaultClassifier matches lower-cased keywords in order: malformed output,
// then auth, then quota, then throttling, falling through to generic.
func DefaultClassifier(message string) ErrorKind {
	msg := strings.ToLower(message)

	for _, kw := range []string{"unmarshal", "malformed", "invalid json", "no function call"} {
		if strings.Contains(msg, kw) {
			return KindMalformedOutput
		}
	}
	for _, kw := range []string{"api key", "unauthorized", "401", "authentication"} {
		if strings.Contains(msg, kw) {
			return KindAuthError
		}
	}
	for _, kw := range []string{"quota", "billing", "insufficient_quota"} {
		if strings.Contains(msg, kw) {
			return KindQuotaExceeded
		}
	}
	for _, kw := range []string{"rate limit", "429", "resource_exhausted"} {
		if strings.Contains(msg, kw) {
			return KindRateLimited
		}
	}
	return KindGeneric
}

//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock.go -package=mocks
type Client interface {
	// Extract turns raw page content into a structured post record. A nil
	// record with a nil error means the model returned no structured object.
	Extract(ctx context.Context, content string, url string) (*domain.Post, error)
}
