package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"dinarx/internal/domain/wallet"
	"dinarx/internal/shared/middleware"
)

// WalletHandler serves the dual-balance ledger for the authenticated user.
type WalletHandler struct {
	service *wallet.Service
}

func NewWalletHandler(service *wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

type WalletResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	JDBalance         float64 `json:"jd_balance"`
	StablecoinBalance float64 `json:"stablecoin_balance"`
}

type DepositRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type ExchangeRequest struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Amount       decimal.Decimal `json:"amount"`
}

func toWalletResponse(w *wallet.Wallet) WalletResponse {
	return WalletResponse{
		ID:                w.ID,
		UserID:            w.UserID,
		JDBalance:         w.JDBalance.InexactFloat64(),
		StablecoinBalance: w.StablecoinBalance.InexactFloat64(),
	}
}

func authenticatedUser(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// HandleWallet returns the user's wallet, creating it on first use.
func (h *WalletHandler) HandleWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userWallet, err := h.service.GetOrCreate(r.Context(), userID)
	if err != nil {
		log.Printf("Error loading wallet for user %s: %v", userID, err)
		writeWalletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalletResponse(userWallet))
}

// HandleDeposit credits a currency balance.
func (h *WalletHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userWallet, err := h.service.Deposit(r.Context(), userID, req.Currency, req.Amount)
	if err != nil {
		writeWalletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalletResponse(userWallet))
}

// HandleExchange converts between JOD and DINARX at the 1:1 peg.
func (h *WalletHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userWallet, err := h.service.Exchange(r.Context(), userID, req.FromCurrency, req.ToCurrency, req.Amount)
	if err != nil {
		writeWalletError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalletResponse(userWallet))
}

// HandleHistory lists the user's ledger entries, newest first.
func (h *WalletHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, ok := authenticatedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("Error listing ledger entries for user %s: %v", userID, err)
		writeWalletError(w, err)
		return
	}

	if entries == nil {
		entries = []wallet.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": entries,
		"total":        len(entries),
		"limit":        limit,
		"offset":       offset,
	})
}
