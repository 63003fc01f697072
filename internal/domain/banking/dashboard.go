package banking

import (
	"sort"

	"github.com/shopspring/decimal"

	"dinarx/internal/infrastructure/jopacc"
)

// DefaultPageSize bounds the recent-transactions list on the dashboard.
const DefaultPageSize = 10

// Dashboard is the merged per-request view of a customer's linked accounts.
// It is derived, never persisted; TotalBalance is recomputed from the
// account list on every assembly.
type Dashboard struct {
	HasLinkedAccounts  bool
	TotalBalance       decimal.Decimal
	Accounts           []AccountState
	RecentTransactions []jopacc.Transaction
	TotalAccounts      int
}

func emptyDashboard() *Dashboard {
	return &Dashboard{
		Accounts:           []AccountState{},
		RecentTransactions: []jopacc.Transaction{},
	}
}

// AssembleDashboard merges the orchestrator's outputs into a Dashboard.
// Pure: no mutation of its inputs and no calls out. Transactions are sorted
// newest first and truncated to pageSize.
func AssembleDashboard(accounts []AccountState, transactions []jopacc.Transaction, pageSize int) Dashboard {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := decimal.Zero
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
	}

	recent := make([]jopacc.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].TransactionDate > recent[j].TransactionDate
	})
	if len(recent) > pageSize {
		recent = recent[:pageSize]
	}

	if accounts == nil {
		accounts = []AccountState{}
	}

	return Dashboard{
		HasLinkedAccounts:  len(accounts) > 0,
		TotalBalance:       total,
		Accounts:           accounts,
		RecentTransactions: recent,
		TotalAccounts:      len(accounts),
	}
}
