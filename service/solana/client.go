package solana

import (
	"context"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/brojonat/solsend/service/metrics"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type RPCClient interface {
	GetBalance(
		ctx context.Context,
		account solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetBalanceResult, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)

	SendTransactionWithOpts(
		ctx context.Context,
		tx *solana.Transaction,
		opts rpc.TransactionOpts,
	) (solana.Signature, error)

	GetSignatureStatuses(
		ctx context.Context,
		searchTransactionHistory bool,
		signatures ...solana.Signature,
	) (*rpc.GetSignatureStatusesResult, error)
}

// ClientConfig holds the per-client submission policy.
type ClientConfig struct {
	// Endpoint identifies the RPC endpoint for metrics labeling
	// (e.g., "mainnet", "devnet", or the RPC hostname).
	Endpoint string

	// Commitment is the confirmation depth required before a submitted
	// transfer is considered settled. Defaults to confirmed.
	Commitment rpc.CommitmentType

	// SkipPreflight bypasses the local simulation the RPC node would run
	// before forwarding the transaction. Faster, but an on-chain failure is
	// only discovered after submission.
	SkipPreflight bool

	// StatusPollInterval is how often the confirmation loop polls
	// getSignatureStatuses. Defaults to 2s.
	StatusPollInterval time.Duration

	// ConfirmationTimeout bounds the post-submission wait for the transaction
	// to reach the configured commitment. The clock starts when submission
	// succeeds, not when the transfer begins. Defaults to 30s.
	ConfirmationTimeout time.Duration
}

// Client executes native transfers against a Solana cluster. It is stateless
// across calls: every balance read is live and every transfer builds a fresh
// transaction, so a single Client may be reused for sequential transfers.
type Client struct {
	rpc            rpcCaller
	logger         *slog.Logger
	metrics        *metrics.Metrics
	endpoint       string
	commitment     rpc.CommitmentType
	skipPreflight  bool
	pollInterval   time.Duration
	confirmTimeout time.Duration
}

// NewClient creates a new transfer client. If m is nil, no metrics are
// recorded.
func NewClient(rpcClient RPCClient, cfg ClientConfig, m *metrics.Metrics, logger *slog.Logger) *Client {
	if cfg.Commitment == "" {
		cfg.Commitment = rpc.CommitmentConfirmed
	}
	if cfg.StatusPollInterval <= 0 {
		cfg.StatusPollInterval = 2 * time.Second
	}
	if cfg.ConfirmationTimeout <= 0 {
		cfg.ConfirmationTimeout = 30 * time.Second
	}
	return &Client{
		rpc:            rpcCaller{rpc: rpcClient, metrics: m, endpoint: cfg.Endpoint},
		logger:         logger,
		metrics:        m,
		endpoint:       cfg.Endpoint,
		commitment:     cfg.Commitment,
		skipPreflight:  cfg.SkipPreflight,
		pollInterval:   cfg.StatusPollInterval,
		confirmTimeout: cfg.ConfirmationTimeout,
	}
}

// Balance reads the live balance of account in lamports. Results are never
// cached; each call is one RPC round trip.
func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.getBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, wrapError(KindNetwork, err, "failed to get balance for %s", account)
	}
	c.logger.DebugContext(ctx, "fetched balance",
		"account", account.String(),
		"lamports", out.Value,
	)
	return out.Value, nil
}

// rpcCaller wraps an RPCClient with per-call metrics recording so the
// orchestration code stays free of timing boilerplate.
type rpcCaller struct {
	rpc      RPCClient
	metrics  *metrics.Metrics
	endpoint string
}

func (r rpcCaller) record(method string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.RecordRPCCall(method, status, r.endpoint, time.Since(start).Seconds())
}

func (r rpcCaller) getBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	start := time.Now()
	out, err := r.rpc.GetBalance(ctx, account, commitment)
	r.record("GetBalance", start, err)
	return out, err
}

func (r rpcCaller) getLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	start := time.Now()
	out, err := r.rpc.GetLatestBlockhash(ctx, commitment)
	r.record("GetLatestBlockhash", start, err)
	return out, err
}

func (r rpcCaller) sendTransaction(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	start := time.Now()
	sig, err := r.rpc.SendTransactionWithOpts(ctx, tx, opts)
	r.record("SendTransaction", start, err)
	return sig, err
}

func (r rpcCaller) getSignatureStatuses(ctx context.Context, sig solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	start := time.Now()
	out, err := r.rpc.GetSignatureStatuses(ctx, false, sig)
	r.record("GetSignatureStatuses", start, err)
	return out, err
}
