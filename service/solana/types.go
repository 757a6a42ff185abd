package solana

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// LamportsPerSOL is the number of base units in one SOL. Used for display
// conversion only; all arithmetic in this package is in lamports.
const LamportsPerSOL = 1_000_000_000

// TransferRequest describes one native transfer. Amounts are in lamports.
//
// Source is optional: when set it must match the address derived from the
// signing key, which guards against sending from the wrong account when the
// request and key come from different configuration sources.
type TransferRequest struct {
	Source      string
	Destination string
	Amount      uint64
	MinBalance  uint64
}

// Receipt is the terminal result of a confirmed transfer.
type Receipt struct {
	Signature     string                     `json:"signature"`
	Slot          uint64                     `json:"slot"`
	Commitment    rpc.ConfirmationStatusType `json:"commitment"`
	Source        string                     `json:"source"`
	Destination   string                     `json:"destination"`
	Lamports      uint64                     `json:"lamports"`
	BalanceBefore uint64                     `json:"balance_before"`
	// BalanceAfter is a best-effort post-confirmation read; zero when the
	// follow-up balance query failed.
	BalanceAfter uint64    `json:"balance_after"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// FormatSOL renders lamports as a human-readable SOL string. Display only;
// the result must never feed back into balance arithmetic.
func FormatSOL(lamports uint64) string {
	whole := lamports / LamportsPerSOL
	frac := lamports % LamportsPerSOL
	return fmt.Sprintf("%d.%09d SOL", whole, frac)
}
