// Package http exposes the platform's REST surface: auth, open banking
// aggregation, loans, wallet, and IBAN validation.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dinarx/internal/domain/customer"
	"dinarx/internal/domain/wallet"
	"dinarx/internal/infrastructure/jopacc"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUpstreamError maps domain and gateway errors onto HTTP statuses.
// Gateway failures are reported as such, never masked with substitute data.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customer.ErrMissingCustomerID):
		writeError(w, http.StatusBadRequest, "customer_id is required")
	case errors.Is(err, jopacc.ErrUpstreamFormat):
		writeError(w, http.StatusBadGateway, "open banking gateway returned malformed data")
	case errors.Is(err, jopacc.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, "open banking gateway unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeWalletError maps ledger rule violations onto HTTP statuses.
func writeWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrSameCurrency),
		errors.Is(err, wallet.ErrUnknownCurrency):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, wallet.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "wallet not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
