package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dinarx/internal/domain/wallet"
	"dinarx/internal/shared/middleware"
)

func walletRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "user-1"))
}

func TestHandleWalletCreatesOnFirstUse(t *testing.T) {
	handler := NewWalletHandler(wallet.NewService(newMockWalletRepo()))

	rec := httptest.NewRecorder()
	handler.HandleWallet(rec, walletRequest(http.MethodGet, "/api/wallet", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var resp WalletResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "user-1" || resp.JDBalance != 0 || resp.StablecoinBalance != 0 {
		t.Errorf("response: %+v", resp)
	}
}

func TestHandleDepositAndExchange(t *testing.T) {
	handler := NewWalletHandler(wallet.NewService(newMockWalletRepo()))

	rec := httptest.NewRecorder()
	handler.HandleDeposit(rec, walletRequest(http.MethodPost, "/api/wallet/deposit", `{"currency": "JOD", "amount": 100}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit status: got %d body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.HandleExchange(rec, walletRequest(http.MethodPost, "/api/wallet/exchange", `{"from_currency": "JOD", "to_currency": "DINARX", "amount": 30}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("exchange status: got %d body %s", rec.Code, rec.Body.String())
	}

	var resp WalletResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JDBalance != 70 || resp.StablecoinBalance != 30 {
		t.Errorf("balances: %+v", resp)
	}
}

func TestHandleExchangeErrorsAre400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Same Currency", `{"from_currency": "JOD", "to_currency": "JOD", "amount": 10}`},
		{"Insufficient Funds", `{"from_currency": "JOD", "to_currency": "DINARX", "amount": 9999}`},
		{"Unknown Currency", `{"from_currency": "USD", "to_currency": "JOD", "amount": 10}`},
		{"Zero Amount", `{"from_currency": "JOD", "to_currency": "DINARX", "amount": 0}`},
	}

	handler := NewWalletHandler(wallet.NewService(newMockWalletRepo()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.HandleExchange(rec, walletRequest(http.MethodPost, "/api/wallet/exchange", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d want 400", rec.Code)
			}
		})
	}
}

func TestHandleWalletRequiresAuth(t *testing.T) {
	handler := NewWalletHandler(wallet.NewService(newMockWalletRepo()))

	req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	rec := httptest.NewRecorder()

	handler.HandleWallet(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d want 401", rec.Code)
	}
}

func TestHandleHistoryEchoesPagination(t *testing.T) {
	handler := NewWalletHandler(wallet.NewService(newMockWalletRepo()))

	rec := httptest.NewRecorder()
	handler.HandleHistory(rec, walletRequest(http.MethodGet, "/api/transactions?limit=5&offset=10", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var resp struct {
		Transactions []wallet.Entry `json:"transactions"`
		Total        int            `json:"total"`
		Limit        int            `json:"limit"`
		Offset       int            `json:"offset"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Transactions == nil {
		t.Error("empty history should be an array, not null")
	}
	if resp.Limit != 5 || resp.Offset != 10 || resp.Total != 0 {
		t.Errorf("pagination echo: %+v", resp)
	}
}

func TestHandleHistoryNormalizesBadPagination(t *testing.T) {
	handler := NewWalletHandler(wallet.NewService(newMockWalletRepo()))

	rec := httptest.NewRecorder()
	handler.HandleHistory(rec, walletRequest(http.MethodGet, "/api/transactions?limit=-3&offset=-1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"limit":20`) || !strings.Contains(rec.Body.String(), `"offset":0`) {
		t.Errorf("defaults not applied: %s", rec.Body.String())
	}
}
