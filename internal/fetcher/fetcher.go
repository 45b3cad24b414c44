package fetcher

import (
	"context"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed fetch attempt.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindAccessDenied ErrorKind = "access_denied"
	KindRateLimited  ErrorKind = "rate_limited"
	KindGeneric      ErrorKind = "generic"
)

// Error is a classified fetch failure. Classification happens once, where the
// underlying failure is first observed, and is never revised upstream.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch failed (%s): %s", e.Kind, e.Message)
}

// Classifier maps a raw failure message to an ErrorKind. It is a pluggable
// function so keyword matching can be swapped for typed errors if the
// underlying renderer ever exposes them.
type Classifier func(message string) ErrorKind

// DefaultClassifier matches lower-cased keywords in order: not-found
// indicators first, then access, then throttling, falling through to generic.
func DefaultClassifier(message string) ErrorKind {
	msg := strings.ToLower(message)

	for _, kw := range []string{"not found", "404", "deleted", "does not exist", "removed"} {
		if strings.Contains(msg, kw) {
			return KindNotFound
		}
	}
	for _, kw := range []string{"private", "forbidden", "403", "login", "access denied"} {
		if strings.Contains(msg, kw) {
			return KindAccessDenied
		}
	}
	for _, kw := range []string{"rate limit", "429", "too many requests", "blocked"} {
		if strings.Contains(msg, kw) {
			return KindRateLimited
		}
	}
	return KindGeneric
}

// MediaRef is a side-channel media reference picked up while rendering.
type MediaRef struct {
	Type string // "video" or "image"
	URL  string
}

// Result is the raw rendered content of a page. It never crosses the
// fetch/retry boundary; downstream stages see only the combined text.
type Result struct {
	Content   string
	MediaRefs []MediaRef
}

// CombinedContent returns the rendered text with media references appended as
// a clearly delimited trailing block, so text-level extraction can see them.
func (r *Result) CombinedContent() string {
	if len(r.MediaRefs) == 0 {
		return r.Content
	}
	var sb strings.Builder
	sb.WriteString(r.Content)
	sb.WriteString("\n\nMedia references:\n")
	for _, ref := range r.MediaRefs {
		sb.WriteString(ref.Type)
		sb.WriteString(": ")
		sb.WriteString(ref.URL)
		sb.WriteString("\n")
	}
	return sb.String()
}

//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock.go -package=mocks
type Client interface {
	// Fetch renders the page at url and returns its content. Failures are
	// reported as *Error with the kind already classified.
	Fetch(ctx context.Context, url string) (*Result, error)
}
