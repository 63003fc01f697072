package jopacc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubHeaderSource pins dynamic header values but still hands out a fresh
// idempotency key per call so reuse can be detected.
type stubHeaderSource struct {
	calls int
}

func (s *stubHeaderSource) IdempotencyKey() string {
	s.calls++
	return fmt.Sprintf("idem-%d", s.calls)
}

func (s *stubHeaderSource) InteractionID() string {
	return "interaction-1"
}

func (s *stubHeaderSource) AuthDate() string {
	return "2025-01-15T10:00:00Z"
}

func newTestClient(serverURL string) *Client {
	return NewClient(Options{
		BaseURL:     serverURL,
		APIToken:    "sandbox-token",
		FinancialID: "FI-001",
		Signature:   "jws-sig",
	}, &stubHeaderSource{})
}

func TestListAccountsSendsSecurityHeaders(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		fmt.Fprint(w, `{"accounts": [{"account_id": "acc_001_jordan_bank", "account_name": "Jordan Bank - Current Account", "bank_name": "Jordan Bank", "currency": "JOD", "balance": 2500.75, "available_balance": 2400.75, "status": "active"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	accounts, err := client.ListAccounts(context.Background(), "IND_CUST_015")
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountID != "acc_001_jordan_bank" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if accounts[0].Balance.String() != "2500.75" {
		t.Errorf("balance: got %s want 2500.75", accounts[0].Balance)
	}

	for header, want := range map[string]string{
		"Authorization":     "Bearer sandbox-token",
		"X-Financial-Id":    "FI-001",
		"X-Jws-Signature":   "jws-sig",
		"X-Idempotency-Key": "idem-1",
		"X-Interaction-Id":  "interaction-1",
		"X-Auth-Date":       "2025-01-15T10:00:00Z",
		"X-Customer-Id":     "IND_CUST_015",
	} {
		if got := gotHeaders.Get(header); got != want {
			t.Errorf("header %s: got %q want %q", header, got, want)
		}
	}
}

func TestIdempotencyKeyIsFreshPerCall(t *testing.T) {
	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("x-idempotency-key"))
		fmt.Fprint(w, `{"accounts": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for i := 0; i < 2; i++ {
		if _, err := client.ListAccounts(context.Background(), "IND_CUST_015"); err != nil {
			t.Fatalf("ListAccounts failed: %v", err)
		}
	}

	if len(keys) != 2 || keys[0] == keys[1] {
		t.Errorf("idempotency keys should differ per call, got %v", keys)
	}
}

func TestGetBalanceOmitsCustomerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, present := r.Header["X-Customer-Id"]; present {
			t.Error("balance endpoint must not carry x-customer-id")
		}
		if r.URL.Path != "/ais/v1/accounts/acc_001/balance" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"balance": 2500.75, "available_balance": 2400.75, "currency": "JOD"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	balance, err := client.GetBalance(context.Background(), "acc_001")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance.AccountID != "acc_001" {
		t.Errorf("account id defaulting: got %s", balance.AccountID)
	}
}

func TestUpstreamErrorsAreNeverMasked(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "Gateway Error Status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
			wantErr: ErrUpstreamUnavailable,
		},
		{
			name: "Gateway Not Found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no such customer", http.StatusNotFound)
			},
			wantErr: ErrUpstreamUnavailable,
		},
		{
			name: "Malformed Payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"accounts": "not-a-list"`)
			},
			wantErr: ErrUpstreamFormat,
		},
		{
			name: "Missing Account ID",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"accounts": [{"bank_name": "Jordan Bank"}]}`)
			},
			wantErr: ErrUpstreamFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient(server.URL)

			_, err := client.ListAccounts(context.Background(), "IND_CUST_015")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnreachableGatewayIsUnavailable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.ListAccounts(context.Background(), "IND_CUST_015")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("error: got %v want %v", err, ErrUpstreamUnavailable)
	}
}

func TestGetLoanEligibilityValidatesScore(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "Valid",
			payload: `{"credit_score": 720, "eligibility": "GOOD", "max_loan_amount": 25000}`,
		},
		{
			name:    "Score Out Of Range",
			payload: `{"credit_score": 9000, "eligibility": "GOOD", "max_loan_amount": 25000}`,
			wantErr: true,
		},
		{
			name:    "Unknown Band",
			payload: `{"credit_score": 720, "eligibility": "STELLAR", "max_loan_amount": 25000}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.payload)
			}))
			defer server.Close()

			client := newTestClient(server.URL)

			eligibility, err := client.GetLoanEligibility(context.Background(), "IND_CUST_015", "acc_001")
			if tt.wantErr {
				if !errors.Is(err, ErrUpstreamFormat) {
					t.Errorf("error: got %v want ErrUpstreamFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetLoanEligibility failed: %v", err)
			}
			if eligibility.AccountID != "acc_001" || eligibility.CustomerID != "IND_CUST_015" {
				t.Errorf("scoping: got %s/%s", eligibility.AccountID, eligibility.CustomerID)
			}
			if !eligibility.EligibleForLoan() {
				t.Error("GOOD band should be eligible")
			}
		})
	}
}

func TestGetExchangeRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("base_currency"); got != "JOD" {
			t.Errorf("base_currency query: got %q", got)
		}
		fmt.Fprint(w, `{"base_currency": "JOD", "rates": {"USD": 1.41, "EUR": 1.29}, "last_updated": "2025-01-15T10:00:00Z"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	rates, err := client.GetExchangeRates(context.Background(), "JOD")
	if err != nil {
		t.Fatalf("GetExchangeRates failed: %v", err)
	}
	if rates.Rates["USD"].String() != "1.41" {
		t.Errorf("USD rate: got %s", rates.Rates["USD"])
	}
}
