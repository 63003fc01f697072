package http

import (
	"log"
	"net/http"
	"strconv"

	"dinarx/internal/domain/banking"
	"dinarx/internal/domain/customer"
	"dinarx/internal/infrastructure/jopacc"
)

// OpenBankingHandler serves the aggregation surface: linked accounts, the
// dashboard, offers, and FX rates.
type OpenBankingHandler struct {
	orchestrator *banking.Orchestrator
	resolver     *customer.Resolver
}

func NewOpenBankingHandler(orchestrator *banking.Orchestrator, resolver *customer.Resolver) *OpenBankingHandler {
	return &OpenBankingHandler{orchestrator: orchestrator, resolver: resolver}
}

// APIInfo echoes which gateway endpoint served a response and which
// customer scoped it. AccountDependent marks calls that required an
// account id from a prior accounts call.
type APIInfo struct {
	Endpoint         string `json:"endpoint"`
	CustomerID       string `json:"customer_id"`
	AccountDependent bool   `json:"account_dependent,omitempty"`
}

type AccountsResponse struct {
	Accounts   []jopacc.Account `json:"accounts"`
	TotalCount int              `json:"total_count"`
	APIInfo    APIInfo          `json:"api_info"`
}

type AccountView struct {
	jopacc.Account
	Unavailable bool `json:"unavailable,omitempty"`
}

type DashboardResponse struct {
	HasLinkedAccounts  bool                 `json:"has_linked_accounts"`
	TotalBalance       float64              `json:"total_balance"`
	Accounts           []AccountView        `json:"accounts"`
	RecentTransactions []jopacc.Transaction `json:"recent_transactions"`
	TotalAccounts      int                  `json:"total_accounts"`
}

type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type OffersResponse struct {
	AccountID  string         `json:"account_id"`
	Offers     []jopacc.Offer `json:"offers"`
	Pagination Pagination     `json:"pagination"`
	APIInfo    APIInfo        `json:"api_info"`
}

// resolveRead picks the customer for a read operation: header, then default.
func (h *OpenBankingHandler) resolveRead(r *http.Request) (customer.Context, error) {
	return h.resolver.Resolve("", r.Header.Get("x-customer-id"))
}

// HandleAccounts lists the customer's linked accounts.
func (h *OpenBankingHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cust, err := h.resolveRead(r)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	list, err := h.orchestrator.ListAccounts(r.Context(), cust)
	if err != nil {
		log.Printf("Customer %s (%s): accounts call failed: %v", cust.CustomerID, cust.Source, err)
		writeUpstreamError(w, err)
		return
	}

	accounts := list.Accounts
	if accounts == nil {
		accounts = []jopacc.Account{}
	}

	writeJSON(w, http.StatusOK, AccountsResponse{
		Accounts:   accounts,
		TotalCount: len(accounts),
		APIInfo:    APIInfo{Endpoint: "/ais/v1/accounts", CustomerID: cust.CustomerID},
	})
}

// HandleDashboard builds the aggregated dashboard. Also serves the
// connect-accounts flow, which returns the same assembled view.
func (h *OpenBankingHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cust, err := h.resolveRead(r)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	dashboard, err := h.orchestrator.BuildDashboard(r.Context(), cust)
	if err != nil {
		log.Printf("Customer %s (%s): dashboard build failed: %v", cust.CustomerID, cust.Source, err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(dashboard))
}

func toDashboardResponse(d *banking.Dashboard) DashboardResponse {
	accounts := make([]AccountView, 0, len(d.Accounts))
	for _, acc := range d.Accounts {
		accounts = append(accounts, AccountView{Account: acc.Account, Unavailable: acc.Unavailable})
	}
	return DashboardResponse{
		HasLinkedAccounts:  d.HasLinkedAccounts,
		TotalBalance:       d.TotalBalance.InexactFloat64(),
		Accounts:           accounts,
		RecentTransactions: d.RecentTransactions,
		TotalAccounts:      d.TotalAccounts,
	}
}

// HandleOffers lists product offers for one account.
func (h *OpenBankingHandler) HandleOffers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	accountID := r.PathValue("accountId")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account id is required")
		return
	}

	cust, err := h.resolveRead(r)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	result, err := h.orchestrator.AccountOffers(r.Context(), cust, accountID)
	if err != nil {
		log.Printf("Customer %s: offers call failed for account %s: %v", cust.CustomerID, accountID, err)
		writeUpstreamError(w, err)
		return
	}

	offers := result.Offers
	if offers == nil {
		offers = []jopacc.Offer{}
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	writeJSON(w, http.StatusOK, OffersResponse{
		AccountID:  accountID,
		Offers:     offers,
		Pagination: Pagination{Total: len(offers), Limit: limit, Offset: offset},
		APIInfo: APIInfo{
			Endpoint:         "/fps/v1/accounts/" + accountID + "/offers",
			CustomerID:       cust.CustomerID,
			AccountDependent: true,
		},
	})
}

// HandleExchangeRates returns current FX rates for a base currency.
func (h *OpenBankingHandler) HandleExchangeRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	base := r.URL.Query().Get("base_currency")
	if base == "" {
		base = r.URL.Query().Get("base")
	}

	rates, err := h.orchestrator.ExchangeRates(r.Context(), base)
	if err != nil {
		log.Printf("FX rates call failed: %v", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rates)
}
