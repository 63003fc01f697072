package jopacc

import (
	"context"
)

// ClientInterface defines the methods required from the Open Banking gateway
// client. The orchestrator and handlers depend on this, never on the
// concrete client.
type ClientInterface interface {
	ListAccounts(ctx context.Context, customerID string) ([]Account, error)
	GetBalance(ctx context.Context, accountID string) (*Balance, error)
	ListTransactions(ctx context.Context, customerID, accountID string, limit int) ([]Transaction, error)
	ListOffers(ctx context.Context, customerID, accountID string) ([]Offer, error)
	GetLoanEligibility(ctx context.Context, customerID, accountID string) (*LoanEligibility, error)
	SubmitLoanApplication(ctx context.Context, customerID string, application LoanApplication) (*LoanApplicationReceipt, error)
	GetExchangeRates(ctx context.Context, baseCurrency string) (*ExchangeRates, error)
	ConfirmIBAN(ctx context.Context, customerID string, confirmation IBANConfirmation) (*IBANConfirmationResult, error)
}
