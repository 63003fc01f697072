package jopacc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account statuses reported by the AIS accounts endpoint.
const (
	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
	AccountStatusClosed    = "closed"
)

// Loan eligibility bands reported by the FPS eligibility endpoint.
const (
	EligibilityPoor      = "POOR"
	EligibilityFair      = "FAIR"
	EligibilityGood      = "GOOD"
	EligibilityExcellent = "EXCELLENT"
)

// Account is the normalized view of a linked bank account. Balances stay
// decimal so aggregation downstream is numerically exact; formatting is a
// presentation concern.
type Account struct {
	AccountID        string          `json:"account_id"`
	AccountName      string          `json:"account_name"`
	AccountNumber    string          `json:"account_number"`
	BankName         string          `json:"bank_name"`
	BankCode         string          `json:"bank_code"`
	AccountType      string          `json:"account_type"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Status           string          `json:"status"`
	LastUpdated      string          `json:"last_updated"`
}

// LastUpdatedTime parses the last_updated timestamp. The gateway emits
// RFC 3339 with or without a zone offset depending on the institution.
func (a *Account) LastUpdatedTime() (*time.Time, error) {
	return parseUpstreamTime(a.LastUpdated)
}

// Balance is the account-scoped balance snapshot. The balance endpoint is
// keyed by account id alone and carries no customer header.
type Balance struct {
	AccountID        string          `json:"account_id"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Currency         string          `json:"currency"`
}

// Transaction is a single booked or pending account transaction.
type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	Merchant        string          `json:"merchant"`
	TransactionDate string          `json:"transaction_date"`
	TransactionType string          `json:"transaction_type"`
	Category        string          `json:"category"`
	Status          string          `json:"status"`
}

// Date parses the transaction_date timestamp.
func (t *Transaction) Date() (*time.Time, error) {
	return parseUpstreamTime(t.TransactionDate)
}

// Offer is a financial product offered against an account.
type Offer struct {
	OfferID      string          `json:"offer_id"`
	ProductName  string          `json:"product_name"`
	BankName     string          `json:"bank_name"`
	ProductType  string          `json:"product_type"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	MaxAmount    decimal.Decimal `json:"max_amount"`
	MinAmount    decimal.Decimal `json:"min_amount"`
	TermMonths   int             `json:"term_months"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
}

// LoanEligibility is the scoring result for one account. It carries the
// customer id that scoped the account lookup it depends on.
type LoanEligibility struct {
	AccountID     string          `json:"account_id"`
	CustomerID    string          `json:"customer_id"`
	CreditScore   int             `json:"credit_score"`
	Eligibility   string          `json:"eligibility"`
	MaxLoanAmount decimal.Decimal `json:"max_loan_amount"`
}

// EligibleForLoan reports whether the scored band qualifies for a loan.
func (e *LoanEligibility) EligibleForLoan() bool {
	return e.Eligibility != EligibilityPoor
}

// LoanApplication is the payload submitted to the FPS applications endpoint.
type LoanApplication struct {
	AccountID  string          `json:"account_id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int             `json:"term_months"`
	Purpose    string          `json:"purpose,omitempty"`
}

// LoanApplicationReceipt acknowledges a submitted application.
type LoanApplicationReceipt struct {
	ApplicationID         string `json:"application_id"`
	Status                string `json:"status"`
	SubmittedAt           string `json:"submitted_at"`
	EstimatedDecisionDate string `json:"estimated_decision_date"`
}

// ExchangeRates is the FX rates snapshot for a base currency.
type ExchangeRates struct {
	BaseCurrency string                     `json:"base_currency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	LastUpdated  string                     `json:"last_updated"`
}

// IBANConfirmation is the payload for the IBAN confirmation service.
type IBANConfirmation struct {
	AccountType string `json:"account_type"`
	AccountID   string `json:"account_id"`
	IBANType    string `json:"iban_type"`
	IBANValue   string `json:"iban_value"`
	UIDType     string `json:"uid_type"`
	UIDValue    string `json:"uid_value"`
}

// IBANConfirmationResult is the upstream verdict on an IBAN.
type IBANConfirmationResult struct {
	Confirmed bool   `json:"confirmed"`
	Reason    string `json:"reason,omitempty"`
}

func parseUpstreamTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Some institutions omit the zone offset
		parsed, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp '%s': %w", value, err)
		}
	}
	return &parsed, nil
}
