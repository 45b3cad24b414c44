package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultClassifier(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    ErrorKind
	}{
		{"http not found", "page returned 404", KindNotFound},
		{"deleted post", "this post was Deleted by the owner", KindNotFound},
		{"missing resource", "resource does not exist", KindNotFound},
		{"forbidden", "403 forbidden", KindAccessDenied},
		{"private account", "account is private", KindAccessDenied},
		{"login wall", "redirected to login page", KindAccessDenied},
		{"throttled", "429 too many requests", KindRateLimited},
		{"rate limit text", "rate limit exceeded, slow down", KindRateLimited},
		{"blocked", "request was blocked by the server", KindRateLimited},
		{"network error", "connection reset by peer", KindGeneric},
		{"empty message", "", KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultClassifier(tt.message))
		})
	}
}

func TestDefaultClassifierOrderSensitive(t *testing.T) {
	// A message matching several buckets resolves to the first checked one.
	assert.Equal(t, KindNotFound, DefaultClassifier("404 while rate limited behind a login"))
}

func TestCombinedContent(t *testing.T) {
	t.Run("no media refs", func(t *testing.T) {
		r := &Result{Content: "some markdown"}
		assert.Equal(t, "some markdown", r.CombinedContent())
	})

	t.Run("with media refs", func(t *testing.T) {
		r := &Result{
			Content: "some markdown",
			MediaRefs: []MediaRef{
				{Type: "video", URL: "https://cdn.example.com/clip.mp4"},
				{Type: "image", URL: "https://cdn.example.com/thumb.jpg"},
			},
		}
		combined := r.CombinedContent()
		assert.Contains(t, combined, "some markdown")
		assert.Contains(t, combined, "Media references:")
		assert.Contains(t, combined, "video: https://cdn.example.com/clip.mp4")
		assert.Contains(t, combined, "image: https://cdn.example.com/thumb.jpg")
	})
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindAccessDenied, Message: "403 forbidden"}
	assert.Equal(t, "fetch failed (access_denied): 403 forbidden", err.Error())
}
