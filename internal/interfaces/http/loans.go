package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"dinarx/internal/domain/banking"
	"dinarx/internal/domain/customer"
	"dinarx/internal/infrastructure/jopacc"
)

// LoanHandler serves loan eligibility checks and applications.
type LoanHandler struct {
	orchestrator *banking.Orchestrator
	resolver     *customer.Resolver
}

func NewLoanHandler(orchestrator *banking.Orchestrator, resolver *customer.Resolver) *LoanHandler {
	return &LoanHandler{orchestrator: orchestrator, resolver: resolver}
}

type EligibilityResponse struct {
	AccountID       string  `json:"account_id"`
	CustomerID      string  `json:"customer_id"`
	CreditScore     int     `json:"credit_score"`
	Eligibility     string  `json:"eligibility"`
	MaxLoanAmount   float64 `json:"max_loan_amount"`
	EligibleForLoan bool    `json:"eligible_for_loan"`
}

type LoanApplicationRequest struct {
	CustomerID string          `json:"customer_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int             `json:"term_months"`
	Purpose    string          `json:"purpose"`
}

// HandleEligibility returns the credit scoring result for one account.
func (h *LoanHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	accountID := r.PathValue("accountId")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account id is required")
		return
	}

	cust, err := h.resolver.Resolve("", r.Header.Get("x-customer-id"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	eligibility, err := h.orchestrator.LoanEligibility(r.Context(), cust, accountID)
	if err != nil {
		log.Printf("Customer %s: eligibility call failed for account %s: %v", cust.CustomerID, accountID, err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EligibilityResponse{
		AccountID:       eligibility.AccountID,
		CustomerID:      eligibility.CustomerID,
		CreditScore:     eligibility.CreditScore,
		Eligibility:     eligibility.Eligibility,
		MaxLoanAmount:   eligibility.MaxLoanAmount.InexactFloat64(),
		EligibleForLoan: eligibility.EligibleForLoan(),
	})
}

// HandleApply submits a loan application. A customer_id in the body wins
// over the header for scoping the submission.
func (h *LoanHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LoanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.TermMonths <= 0 {
		writeError(w, http.StatusBadRequest, "term_months must be positive")
		return
	}

	cust, err := h.resolver.Resolve(req.CustomerID, r.Header.Get("x-customer-id"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	receipt, err := h.orchestrator.ApplyForLoan(r.Context(), cust, jopacc.LoanApplication{
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		TermMonths: req.TermMonths,
		Purpose:    req.Purpose,
	})
	if err != nil {
		log.Printf("Customer %s (%s): loan application failed: %v", cust.CustomerID, cust.Source, err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}
