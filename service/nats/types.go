package nats

import (
	"time"

	"github.com/brojonat/solsend/service/solana"
)

// TransferEvent represents a confirmed transfer receipt published to NATS.
// This is published to the subject "transfers.{sender_address}" in JetStream.
type TransferEvent struct {
	// Transaction identifiers
	Signature string `json:"signature"`
	Slot      uint64 `json:"slot"`

	// Participants
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`

	// Transfer details (lamports)
	Lamports      uint64 `json:"lamports"`
	BalanceBefore uint64 `json:"balance_before"`
	BalanceAfter  uint64 `json:"balance_after"`

	// Confirmation metadata
	Commitment  string    `json:"commitment"`
	ConfirmedAt time.Time `json:"confirmed_at"`

	// Metadata
	PublishedAt time.Time `json:"published_at"`
}

// FromReceipt converts a confirmed transfer receipt to a TransferEvent for publishing.
func FromReceipt(receipt *solana.Receipt) *TransferEvent {
	return &TransferEvent{
		Signature:     receipt.Signature,
		Slot:          receipt.Slot,
		Sender:        receipt.Source,
		Recipient:     receipt.Destination,
		Lamports:      receipt.Lamports,
		BalanceBefore: receipt.BalanceBefore,
		BalanceAfter:  receipt.BalanceAfter,
		Commitment:    string(receipt.Commitment),
		ConfirmedAt:   receipt.ConfirmedAt,
		PublishedAt:   time.Now().UTC(),
	}
}
