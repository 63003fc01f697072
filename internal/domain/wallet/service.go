package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service applies ledger rules on top of the repository. Exchanges between
// JOD and DINARX are pegged 1:1.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate returns the user's wallet, creating an empty one on first use.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*Wallet, error) {
	w, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	w = &Wallet{
		ID:                uuid.NewString(),
		UserID:            userID,
		JDBalance:         decimal.Zero,
		StablecoinBalance: decimal.Zero,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return w, nil
}

// Deposit credits the given currency balance.
func (s *Service) Deposit(ctx context.Context, userID, currency string, amount decimal.Decimal) (*Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var jdDelta, coinDelta decimal.Decimal
	switch currency {
	case CurrencyJOD:
		jdDelta = amount
	case CurrencyDinarX:
		coinDelta = amount
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		Type:       TypeDeposit,
		ToCurrency: currency,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.ApplyLedger(ctx, userID, jdDelta, coinDelta, entry)
}

// Exchange converts between JOD and DINARX at the 1:1 peg. The source
// balance must cover the full amount.
func (s *Service) Exchange(ctx context.Context, userID, fromCurrency, toCurrency string, amount decimal.Decimal) (*Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if fromCurrency == toCurrency {
		return nil, ErrSameCurrency
	}
	for _, currency := range []string{fromCurrency, toCurrency} {
		if currency != CurrencyJOD && currency != CurrencyDinarX {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
		}
	}

	w, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var jdDelta, coinDelta decimal.Decimal
	if fromCurrency == CurrencyJOD {
		if w.JDBalance.LessThan(amount) {
			return nil, ErrInsufficientFunds
		}
		jdDelta = amount.Neg()
		coinDelta = amount
	} else {
		if w.StablecoinBalance.LessThan(amount) {
			return nil, ErrInsufficientFunds
		}
		jdDelta = amount
		coinDelta = amount.Neg()
	}

	entry := &Entry{
		ID:           uuid.NewString(),
		Type:         TypeExchange,
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		Amount:       amount,
		CreatedAt:    time.Now().UTC(),
	}
	return s.repo.ApplyLedger(ctx, userID, jdDelta, coinDelta, entry)
}

// History lists the user's ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListEntries(ctx, userID, limit, offset)
}
