package solana

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// CheckSufficientBalance reads the live balance of source and reports whether
// it covers amount plus minReserve. The second return value is the balance
// observed, so callers can surface it without a second RPC call.
//
// This is a point-in-time check, not a reservation: the balance may change
// between the check and a subsequent submission. When amount + minReserve
// would overflow uint64 the check fails closed (insufficient) instead of
// wrapping.
func (c *Client) CheckSufficientBalance(ctx context.Context, source solana.PublicKey, amount, minReserve uint64) (bool, uint64, error) {
	balance, err := c.Balance(ctx, source)
	if err != nil {
		return false, 0, err
	}

	required, ok := requiredLamports(amount, minReserve)
	if !ok {
		return false, balance, nil
	}
	return balance >= required, balance, nil
}

// requiredLamports computes amount + minReserve, reporting false when the
// sum overflows.
func requiredLamports(amount, minReserve uint64) (uint64, bool) {
	if amount > math.MaxUint64-minReserve {
		return 0, false
	}
	return amount + minReserve, true
}

// ExecuteTransfer runs one native transfer end to end: validate the request,
// check balance sufficiency, fetch a fresh blockhash, build and sign the
// transfer, submit it, and wait for the configured commitment level.
//
// There are no internal retries. A signed transaction is never resubmitted:
// its blockhash may have expired, so a retry is a fresh call which rebuilds
// from a new blockhash. Errors carry a Kind (see ErrorKind); a KindTimeout
// error is indeterminate — the transfer may still land after this returns.
func (c *Client) ExecuteTransfer(ctx context.Context, req TransferRequest, key solana.PrivateKey) (*Receipt, error) {
	// Request invariant, enforced again here in case the caller bypassed
	// config validation. Typed so KindOf works on every error this method
	// returns.
	if req.Amount == 0 {
		return nil, newError(KindInvalidAddress, "transfer amount must be positive")
	}

	// The source is always re-derived from the signing key. A caller-supplied
	// source that disagrees with the key is a configuration mistake, not
	// something to silently paper over.
	source := key.PublicKey()
	if req.Source != "" && req.Source != source.String() {
		return nil, newError(KindInvalidAddress,
			"source %s does not match signing key %s", req.Source, source)
	}

	destination, err := ParseAddress(req.Destination)
	if err != nil {
		return nil, err
	}

	sufficient, balance, err := c.CheckSufficientBalance(ctx, source, req.Amount, req.MinBalance)
	if err != nil {
		return nil, err
	}
	if !sufficient {
		required, ok := requiredLamports(req.Amount, req.MinBalance)
		if !ok {
			required = math.MaxUint64
		}
		if c.metrics != nil {
			c.metrics.RecordTransfer(c.endpoint, "insufficient_balance")
		}
		return nil, &InsufficientBalanceError{Current: balance, Required: required}
	}

	c.logger.InfoContext(ctx, "balance check passed",
		"source", source.String(),
		"destination", destination.String(),
		"balance", balance,
		"amount", req.Amount,
		"min_balance", req.MinBalance,
	)

	// Each attempt binds to a fresh blockhash. Reusing one across attempts
	// risks submitting against an expired validity window.
	blockhash, err := c.rpc.getLatestBlockhash(ctx, c.commitment)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordTransfer(c.endpoint, string(KindNetwork))
		}
		return nil, wrapError(KindNetwork, err, "failed to get latest blockhash")
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(req.Amount, source, destination).Build(),
		},
		blockhash.Value.Blockhash,
		solana.TransactionPayer(source),
	)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordTransfer(c.endpoint, string(KindNetwork))
		}
		return nil, wrapError(KindNetwork, err, "failed to build transaction")
	}

	if _, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(source) {
			return &key
		}
		return nil
	}); err != nil {
		return nil, wrapError(KindKeyConstruction, err, "failed to sign transaction")
	}

	sig, err := c.rpc.sendTransaction(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       c.skipPreflight,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		kind := submitErrorKind(err)
		if c.metrics != nil {
			c.metrics.RecordTransfer(c.endpoint, string(kind))
		}
		return nil, wrapError(kind, err, "failed to submit transaction")
	}

	c.logger.InfoContext(ctx, "transaction submitted",
		"signature", sig.String(),
		"blockhash", blockhash.Value.Blockhash.String(),
		"skip_preflight", c.skipPreflight,
	)

	// The confirmation window starts at submission: time spent on the balance
	// check and blockhash fetch does not eat into it.
	confirmCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	confirmStart := time.Now()
	status, err := c.awaitConfirmation(confirmCtx, sig)
	if c.metrics != nil {
		c.metrics.RecordConfirmationWait(c.endpoint, time.Since(confirmStart).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordTransfer(c.endpoint, string(KindOf(err)))
		}
		return nil, err
	}

	receipt := &Receipt{
		Signature:     sig.String(),
		Slot:          status.Slot,
		Commitment:    status.ConfirmationStatus,
		Source:        source.String(),
		Destination:   destination.String(),
		Lamports:      req.Amount,
		BalanceBefore: balance,
		ConfirmedAt:   time.Now().UTC(),
	}

	// Best effort: report the post-transfer balance. The transfer already
	// confirmed, so a failed read here is logged and ignored.
	if after, err := c.Balance(ctx, source); err == nil {
		receipt.BalanceAfter = after
	} else {
		c.logger.WarnContext(ctx, "failed to read post-transfer balance",
			"source", source.String(),
			"error", err,
		)
	}

	if c.metrics != nil {
		c.metrics.RecordTransfer(c.endpoint, "confirmed")
		c.metrics.RecordLamportsTransferred(c.endpoint, float64(req.Amount))
	}

	c.logger.InfoContext(ctx, "transfer confirmed",
		"signature", receipt.Signature,
		"slot", receipt.Slot,
		"commitment", receipt.Commitment,
		"balance_after", receipt.BalanceAfter,
	)

	return receipt, nil
}

// awaitConfirmation polls getSignatureStatuses until the signature reaches
// the client's commitment level, the chain reports an execution error, or
// ctx expires. Expiry maps to KindTimeout: the transaction was already
// submitted, so the outcome is unknown.
func (c *Client) awaitConfirmation(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		out, err := c.rpc.getSignatureStatuses(ctx, sig)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, wrapError(KindTimeout, err,
					"confirmation window expired for %s; outcome indeterminate", sig)
			}
			// Transient status-poll failures are retried on the next tick;
			// the submission itself already went out.
			c.logger.WarnContext(ctx, "status poll failed, will retry",
				"signature", sig.String(),
				"error", err,
			)
		} else if len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return nil, newError(KindRejectedByChain,
					"transaction %s failed on-chain: %v", sig, status.Err)
			}
			if commitmentReached(status.ConfirmationStatus, c.commitment) {
				return status, nil
			}
			c.logger.DebugContext(ctx, "awaiting commitment",
				"signature", sig.String(),
				"status", status.ConfirmationStatus,
				"want", c.commitment,
			)
		}

		select {
		case <-ctx.Done():
			return nil, wrapError(KindTimeout, ctx.Err(),
				"confirmation window expired for %s; outcome indeterminate", sig)
		case <-ticker.C:
		}
	}
}

// commitmentReached reports whether an observed confirmation status meets
// the requested commitment level.
func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(rpc.ConfirmationStatusProcessed):
			return 1
		case string(rpc.ConfirmationStatusConfirmed):
			return 2
		case string(rpc.ConfirmationStatusFinalized):
			return 3
		}
		return 0
	}
	return rank(string(status)) >= rank(string(want))
}

// submitErrorKind classifies a sendTransaction failure. An RPC-level error
// response means the node (or the cluster via preflight) rejected the
// transaction; anything else is a transport problem. A context deadline hit
// mid-submission is indeterminate because the request may have gone out.
func submitErrorKind(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return KindRejectedByChain
	}
	return KindNetwork
}
