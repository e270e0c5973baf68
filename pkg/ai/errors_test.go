package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"rate limited":   {err: newProviderError(http.StatusTooManyRequests, ""), want: RateLimitMessage},
		"provider":       {err: newProviderError(http.StatusBadGateway, ""), want: ProviderErrorMessage},
		"not configured": {err: ErrServiceUnavailable, want: NotConfiguredMessage},
		"parse":          {err: fmt.Errorf("%w: invalid JSON", ErrParse), want: ParseErrorMessage},
		"transport":      {err: fmt.Errorf("%w: timeout", ErrTransport), want: ProviderErrorMessage},
		"unknown":        {err: errors.New("boom"), want: ProviderErrorMessage},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
