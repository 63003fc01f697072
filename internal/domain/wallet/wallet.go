// Package wallet implements the dual-balance ledger: a JOD balance and a
// DINARX stablecoin balance per user, moved only through recorded entries.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameCurrency      = errors.New("from and to currency must differ")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrUnknownCurrency   = errors.New("unknown currency")
)

// Supported ledger currencies.
const (
	CurrencyJOD    = "JOD"
	CurrencyDinarX = "DINARX"
)

// Transaction types recorded in the ledger.
const (
	TypeDeposit  = "deposit"
	TypeExchange = "exchange"
)

// Wallet is one user's dual-currency balance pair.
type Wallet struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	JDBalance         decimal.Decimal `json:"jd_balance"`
	StablecoinBalance decimal.Decimal `json:"stablecoin_balance"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Entry is one recorded ledger movement.
type Entry struct {
	ID           string          `json:"id"`
	WalletID     string          `json:"wallet_id"`
	Type         string          `json:"type"`
	FromCurrency string          `json:"from_currency,omitempty"`
	ToCurrency   string          `json:"to_currency,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Repository is the storage contract for wallets and their ledger.
// ApplyLedger must adjust both balances and append the entry atomically.
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByUserID(ctx context.Context, userID string) (*Wallet, error)
	ApplyLedger(ctx context.Context, userID string, jdDelta, coinDelta decimal.Decimal, entry *Entry) (*Wallet, error)
	ListEntries(ctx context.Context, userID string, limit, offset int) ([]Entry, error)
}
