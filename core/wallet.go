package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Balance per-(token, account) balance row of the token ledger.
type Balance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Token     string          `sql:"size:64;unique_index:balance_idx" json:"token"`
	Account   string          `sql:"size:64;unique_index:balance_idx" json:"account"`
	Amount    decimal.Decimal `sql:"type:decimal(65,0)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Allowance spender allowance granted by a token owner.
type Allowance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Token     string          `sql:"size:64;unique_index:allowance_idx" json:"token"`
	Owner     string          `sql:"size:64;unique_index:allowance_idx" json:"owner"`
	Spender   string          `sql:"size:64;unique_index:allowance_idx" json:"spender"`
	Amount    decimal.Decimal `sql:"type:decimal(65,0)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Transfer settled token movement, kept as an audit trail.
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string          `sql:"size:36;unique_index:transfer_trace_idx" json:"trace_id"`
	Token     string          `sql:"size:64" json:"token"`
	Sender    string          `sql:"size:64" json:"sender"`
	Recipient string          `sql:"size:64" json:"recipient"`
	Amount    decimal.Decimal `sql:"type:decimal(65,0)" json:"amount"`
	Memo      string          `sql:"size:140" json:"memo"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IWalletStore token ledger store interface. Move and MoveFrom run their row
// updates inside a single transaction so a failed precondition leaves both
// sides untouched.
type IWalletStore interface {
	// FindBalance returns a zero-ID row with a zero amount when absent.
	FindBalance(ctx context.Context, token, account string) (*Balance, error)
	FindAllowance(ctx context.Context, token, owner, spender string) (*Allowance, error)
	Credit(ctx context.Context, token, account string, amount decimal.Decimal) error
	Move(ctx context.Context, token, from, to string, amount decimal.Decimal) error
	// MoveFrom additionally decrements the (token, from, spender) allowance.
	MoveFrom(ctx context.Context, token, from, spender, to string, amount decimal.Decimal) error
	SetAllowance(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error
	CreateTransfer(ctx context.Context, transfer *Transfer) error
	ListTransfers(ctx context.Context, account string, limit int) ([]*Transfer, error)
}

// IWalletService token ledger interface, the stablecoin/AMPT collaborator of
// the other ledgers.
type IWalletService interface {
	Mint(ctx context.Context, token, to string, amount decimal.Decimal) error
	Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal, memo string) error
	Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, token, spender, from, to string, amount decimal.Decimal, memo string) error
	BalanceOf(ctx context.Context, token, account string) (decimal.Decimal, error)
	Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error)
}
