package extractor

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
		{"bad json", "could not unmarshal function arguments", KindMalformedOutput},
		{"no call", "model returned no function call", KindMalformedOutput},
		{"bad key", "invalid api key provided", KindAuthError},
		{"unauthorized", "401 unauthorized", KindAuthError},
		{"quota", "quota exceeded for billing", KindQuotaExceeded},
		{"insufficient quota", "error code insufficient_quota", KindQuotaExceeded},
		{"throttled", "429 rate limit reached", KindRateLimited},
		{"exhausted", "RESOURCE_EXHAUSTED", KindRateLimited},
		{"anything else", "connection refused", KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultClassifier(tt.message))
		})
	}
}
