package solana

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "typed error",
			err:  newError(KindNetwork, "connection refused"),
			want: KindNetwork,
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("outer: %w", newError(KindTimeout, "deadline")),
			want: KindTimeout,
		},
		{
			name: "insufficient balance error",
			err:  &InsufficientBalanceError{Current: 1, Required: 2},
			want: KindInsufficientBalance,
		},
		{
			name: "untyped error",
			err:  errors.New("plain"),
			want: ErrorKind(""),
		},
		{
			name: "nil",
			err:  nil,
			want: ErrorKind(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIndeterminate_OnlyTimeout(t *testing.T) {
	assert.True(t, Indeterminate(newError(KindTimeout, "window expired")))
	assert.False(t, Indeterminate(newError(KindNetwork, "refused")))
	assert.False(t, Indeterminate(newError(KindRejectedByChain, "failed")))
	assert.False(t, Indeterminate(&InsufficientBalanceError{}))
	assert.False(t, Indeterminate(nil))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(KindNetwork, cause, "rpc call failed")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network")
	assert.Contains(t, err.Error(), "boom")
}

func TestInsufficientBalanceError_Message(t *testing.T) {
	err := &InsufficientBalanceError{Current: 1_000_000_000, Required: 1_005_000_000}
	assert.Contains(t, err.Error(), "1000000000")
	assert.Contains(t, err.Error(), "1005000000")
	assert.Contains(t, err.Error(), "insufficient_balance")
}
