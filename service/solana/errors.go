package solana

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories surfaced by this package.
// Callers branch on the kind instead of matching error message strings.
type ErrorKind string

const (
	// KindInvalidEncoding means a textual key or address could not be
	// base58-decoded at all.
	KindInvalidEncoding ErrorKind = "invalid_encoding"

	// KindInvalidKeyLength means a secret key decoded to the wrong number
	// of bytes for ed25519 (expected 64: 32-byte seed + 32-byte public key).
	KindInvalidKeyLength ErrorKind = "invalid_key_length"

	// KindKeyConstruction means the decoded bytes do not form a valid
	// keypair (the public half does not match the seed-derived key).
	KindKeyConstruction ErrorKind = "key_construction"

	// KindInvalidAddress means an account address failed to parse, or a
	// caller-supplied source does not match the signing key.
	KindInvalidAddress ErrorKind = "invalid_address"

	// KindInsufficientBalance means the source account cannot cover the
	// transfer amount plus the configured reserve.
	KindInsufficientBalance ErrorKind = "insufficient_balance"

	// KindNetwork covers transport-level RPC failures (connection refused,
	// DNS, malformed responses).
	KindNetwork ErrorKind = "network"

	// KindRejectedByChain means the transaction was submitted but the
	// cluster reported an on-chain execution error.
	KindRejectedByChain ErrorKind = "rejected_by_chain"

	// KindTimeout means the confirmation window expired before the
	// requested commitment was observed. The transaction may still have
	// landed; this is the only indeterminate kind.
	KindTimeout ErrorKind = "timeout"
)

// Error is a typed failure from the transfer core. Msg is human-readable;
// Kind is the stable tag callers should branch on.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Indeterminate reports whether the outcome of the operation is unknown.
// A timed-out submission may or may not have been included on-chain, so the
// caller should check the transaction status before retrying.
func (e *Error) Indeterminate() bool {
	return e.Kind == KindTimeout
}

// newError creates a typed error without a cause.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapError creates a typed error wrapping an underlying cause.
func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// InsufficientBalanceError reports a failed sufficiency check. Current is the
// live balance at check time and Required is amount + minimum reserve, both
// in lamports. Required saturates at the maximum uint64 when the sum would
// overflow.
type InsufficientBalanceError struct {
	Current  uint64
	Required uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: balance %d lamports, required %d lamports",
		KindInsufficientBalance, e.Current, e.Required)
}

// KindOf extracts the ErrorKind from an error chain. It returns an empty
// kind for nil or untyped errors.
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return KindInsufficientBalance
	}
	return ""
}

// Indeterminate reports whether err carries an indeterminate outcome (see
// Error.Indeterminate).
func Indeterminate(err error) bool {
	return KindOf(err) == KindTimeout
}
