package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rate limit is retryable",
			err:  fmt.Errorf("api call: %w", ErrRateLimit),
			want: true,
		},
		{
			name: "deadline exceeded is retryable",
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "retryable error honors flag true",
			err:  &RetryableError{Err: errors.New("transient"), Retryable: true},
			want: true,
		},
		{
			name: "retryable error honors flag false",
			err:  &RetryableError{Err: errors.New("permanent"), Retryable: false},
			want: false,
		},
		{
			name: "plain error is not retryable",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	inner := errors.New("sku collision")
	err := NewUserError("a product with this sku already exists", inner)

	assert.Equal(t, "a product with this sku already exists: sku collision", err.Error())
	assert.ErrorIs(t, err, inner)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "a product with this sku already exists", userErr.UserMessage)
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("import a catalog before searching", nil)
	assert.Equal(t, "import a catalog before searching", err.Error())
}

func TestRetryableErrorUnwrap(t *testing.T) {
	inner := errors.New("503 from upstream")
	err := &RetryableError{Err: inner, Retryable: true}

	assert.Equal(t, inner.Error(), err.Error())
	assert.ErrorIs(t, err, inner)
}
