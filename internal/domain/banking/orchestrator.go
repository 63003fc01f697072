// Package banking sequences the account-dependent call chains against the
// Open Banking gateway and assembles the results for presentation.
package banking

import (
	"context"
	"fmt"
	"log"
	"sync"

	"dinarx/internal/domain/customer"
	"dinarx/internal/infrastructure/jopacc"
)

// AccountState is one account plus the outcome of its dependent enrichment
// calls. Unavailable marks accounts whose enrichment failed; the listed
// values from the accounts call are retained.
type AccountState struct {
	jopacc.Account
	Unavailable bool
}

// AccountList is the result of the customer-scoped accounts call.
type AccountList struct {
	Customer customer.Context
	Accounts []jopacc.Account
}

// OffersResult carries the offers for one account together with the
// customer context that scoped the lookup.
type OffersResult struct {
	Customer  customer.Context
	AccountID string
	Offers    []jopacc.Offer
}

// Orchestrator executes ordered, dependent gateway call chains. Dependent
// calls fan out concurrently per account and are joined before assembly.
type Orchestrator struct {
	client   jopacc.ClientInterface
	pageSize int
}

func NewOrchestrator(client jopacc.ClientInterface, pageSize int) *Orchestrator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Orchestrator{client: client, pageSize: pageSize}
}

// ListAccounts performs the primary customer-scoped accounts call. A zero
// result is an empty state, not an error.
func (o *Orchestrator) ListAccounts(ctx context.Context, cust customer.Context) (*AccountList, error) {
	accounts, err := o.client.ListAccounts(ctx, cust.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("accounts call for customer %s: %w", cust.CustomerID, err)
	}
	return &AccountList{Customer: cust, Accounts: accounts}, nil
}

// BuildDashboard resolves the full dashboard for one customer:
// accounts, then per-account balance and transaction enrichment.
//
// Failure policy: if the accounts call itself fails the whole request fails
// and no dependent call is issued. A dependent failure degrades only the
// affected account; the dashboard still returns every listed account.
func (o *Orchestrator) BuildDashboard(ctx context.Context, cust customer.Context) (*Dashboard, error) {
	list, err := o.ListAccounts(ctx, cust)
	if err != nil {
		return nil, err
	}

	if len(list.Accounts) == 0 {
		return emptyDashboard(), nil
	}

	states := make([]AccountState, len(list.Accounts))
	var (
		mu           sync.Mutex
		transactions []jopacc.Transaction
		wg           sync.WaitGroup
	)

	for i, acc := range list.Accounts {
		states[i] = AccountState{Account: acc}

		wg.Add(1)
		go func(i int, acc jopacc.Account) {
			defer wg.Done()

			balance, balErr := o.client.GetBalance(ctx, acc.AccountID)
			txs, txErr := o.client.ListTransactions(ctx, cust.CustomerID, acc.AccountID, o.pageSize)

			mu.Lock()
			defer mu.Unlock()

			if balErr != nil || txErr != nil {
				states[i].Unavailable = true
				log.Printf("Customer %s: enrichment unavailable for account %s (balance: %v, transactions: %v)",
					cust.CustomerID, acc.AccountID, balErr, txErr)
			}
			if balErr == nil {
				states[i].Balance = balance.Balance
				states[i].AvailableBalance = balance.AvailableBalance
			}
			if txErr == nil {
				transactions = append(transactions, txs...)
			}
		}(i, acc)
	}

	wg.Wait()

	dashboard := AssembleDashboard(states, transactions, o.pageSize)
	return &dashboard, nil
}

// AccountOffers fetches offers for a single account.
func (o *Orchestrator) AccountOffers(ctx context.Context, cust customer.Context, accountID string) (*OffersResult, error) {
	offers, err := o.client.ListOffers(ctx, cust.CustomerID, accountID)
	if err != nil {
		return nil, fmt.Errorf("offers call for account %s: %w", accountID, err)
	}
	return &OffersResult{Customer: cust, AccountID: accountID, Offers: offers}, nil
}

// LoanEligibility fetches the scoring result for a single account.
func (o *Orchestrator) LoanEligibility(ctx context.Context, cust customer.Context, accountID string) (*jopacc.LoanEligibility, error) {
	eligibility, err := o.client.GetLoanEligibility(ctx, cust.CustomerID, accountID)
	if err != nil {
		return nil, fmt.Errorf("eligibility call for account %s: %w", accountID, err)
	}
	return eligibility, nil
}

// ApplyForLoan submits a loan application scoped to the customer.
func (o *Orchestrator) ApplyForLoan(ctx context.Context, cust customer.Context, application jopacc.LoanApplication) (*jopacc.LoanApplicationReceipt, error) {
	receipt, err := o.client.SubmitLoanApplication(ctx, cust.CustomerID, application)
	if err != nil {
		return nil, fmt.Errorf("loan application for customer %s: %w", cust.CustomerID, err)
	}
	return receipt, nil
}

// ExchangeRates fetches the FX rates snapshot.
func (o *Orchestrator) ExchangeRates(ctx context.Context, baseCurrency string) (*jopacc.ExchangeRates, error) {
	if baseCurrency == "" {
		baseCurrency = "JOD"
	}
	return o.client.GetExchangeRates(ctx, baseCurrency)
}

// ConfirmIBAN proxies an IBAN confirmation scoped to the customer.
func (o *Orchestrator) ConfirmIBAN(ctx context.Context, cust customer.Context, confirmation jopacc.IBANConfirmation) (*jopacc.IBANConfirmationResult, error) {
	result, err := o.client.ConfirmIBAN(ctx, cust.CustomerID, confirmation)
	if err != nil {
		return nil, fmt.Errorf("iban confirmation for customer %s: %w", cust.CustomerID, err)
	}
	return result, nil
}
