package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"dinarx/internal/domain/wallet"
)

// WalletRepository implements the wallet.Repository interface for PostgreSQL
type WalletRepository struct {
	db *DB
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(db *DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, jd_balance, stablecoin_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query, w.ID, w.UserID, w.JDBalance, w.StablecoinBalance, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByUserID retrieves the wallet for a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*wallet.Wallet, error) {
	query := `
		SELECT id, user_id, jd_balance, stablecoin_balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	var w wallet.Wallet
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&w.ID, &w.UserID, &w.JDBalance, &w.StablecoinBalance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &w, nil
}

// ApplyLedger adjusts both balances and appends the ledger entry in one
// transaction. The row lock on the wallet serializes concurrent movements.
func (r *WalletRepository) ApplyLedger(ctx context.Context, userID string, jdDelta, coinDelta decimal.Decimal, entry *wallet.Entry) (*wallet.Wallet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var w wallet.Wallet
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, jd_balance, stablecoin_balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&w.ID, &w.UserID, &w.JDBalance, &w.StablecoinBalance, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	w.JDBalance = w.JDBalance.Add(jdDelta)
	w.StablecoinBalance = w.StablecoinBalance.Add(coinDelta)
	if w.JDBalance.IsNegative() || w.StablecoinBalance.IsNegative() {
		return nil, wallet.ErrInsufficientFunds
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE wallets
		SET jd_balance = $1, stablecoin_balance = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING updated_at
	`, w.JDBalance, w.StablecoinBalance, w.ID).Scan(&w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balances: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_entries (id, wallet_id, type, from_currency, to_currency, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, w.ID, entry.Type, nullString(entry.FromCurrency), nullString(entry.ToCurrency), entry.Amount, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry: %w", err)
	}

	entry.WalletID = w.ID
	return &w, nil
}

// ListEntries retrieves the user's ledger entries, newest first
func (r *WalletRepository) ListEntries(ctx context.Context, userID string, limit, offset int) ([]wallet.Entry, error) {
	query := `
		SELECT e.id, e.wallet_id, e.type, e.from_currency, e.to_currency, e.amount, e.created_at
		FROM wallet_entries e
		JOIN wallets w ON w.id = e.wallet_id
		WHERE w.user_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []wallet.Entry{}
	for rows.Next() {
		var e wallet.Entry
		var fromCurrency, toCurrency sql.NullString

		if err := rows.Scan(&e.ID, &e.WalletID, &e.Type, &fromCurrency, &toCurrency, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.FromCurrency = fromCurrency.String
		e.ToCurrency = toCurrency.String

		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
